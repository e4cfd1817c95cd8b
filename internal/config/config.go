// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// BlobDir is the root directory of the biometric artifact store.
	BlobDir string

	// BlobBaseURL is the public base URL under which stored blobs are
	// reachable by devices (devices fetch face images over HTTP).
	BlobBaseURL string

	// EventCallbackURL is the default URL registered with devices for
	// HTTP host event notifications.
	EventCallbackURL string

	// DeviceTimeout is the per-call HTTP timeout for device requests.
	DeviceTimeout time.Duration

	// NTPHost is the default NTP server pushed to devices.
	NTPHost string

	// NTPPort is the default NTP server port.
	NTPPort int

	// NTPInterval is the default NTP synchronize interval in seconds.
	NTPInterval int

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.BlobDir, "blob-dir", "storage", "biometric blob storage directory")
	flag.StringVar(&options.BlobBaseURL, "blob-url", "http://localhost:8080/storage", "public base URL of blob storage")
	flag.StringVar(&options.EventCallbackURL, "event-url", "http://localhost:8080/api/isup/event", "callback URL registered with devices")
	flag.DurationVar(&options.DeviceTimeout, "device-timeout", 15*time.Second, "per-call timeout for device requests")
	flag.StringVar(&options.NTPHost, "ntp-host", "ntp.cigs.net.id", "default NTP server host")
	flag.IntVar(&options.NTPPort, "ntp-port", 123, "default NTP server port")
	flag.IntVar(&options.NTPInterval, "ntp-interval", 180, "default NTP synchronize interval (seconds)")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}

	if eventURL := os.Getenv("EVENT_CALLBACK_URL"); eventURL != "" {
		options.EventCallbackURL = eventURL
	}

	return options
}
