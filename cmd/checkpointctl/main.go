// Package main implements checkpointctl, a small command-line client for
// the checkpoint administration API.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

var (
	version   string
	buildDate string
)

// call issues one API request and pretty-prints the JSON response body.
func call(client *http.Client, method, url string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(data))
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(out.String())
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: checkpointctl [flags] <command> [args]

Commands:
  list                       list registered checkpoints
  status <id>                check device connectivity
  reboot <id>                reboot a device
  sync <id> <employeeID>...  sync employees to a device
  delete-users <id>          remove all users from a device`)
	flag.PrintDefaults()
}

// main parses command-line flags and dispatches to the API commands.
func main() {
	var (
		baseURL string
		showVer bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Usage = usage
	flag.Parse()

	if showVer {
		fmt.Printf("checkpointctl\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	api := baseURL + "/api/checkpoints"

	var err error
	switch args[0] {
	case "list":
		err = call(client, http.MethodGet, api+"/", nil)
	case "status":
		if len(args) < 2 {
			log.Fatal("Usage: status <id>")
		}
		err = call(client, http.MethodGet, api+"/"+args[1]+"/status", nil)
	case "reboot":
		if len(args) < 2 {
			log.Fatal("Usage: reboot <id>")
		}
		err = call(client, http.MethodPost, api+"/"+args[1]+"/reboot", nil)
	case "sync":
		if len(args) < 3 {
			log.Fatal("Usage: sync <id> <employeeID>...")
		}
		ids := make([]int64, 0, len(args)-2)
		for _, raw := range args[2:] {
			id, convErr := strconv.ParseInt(raw, 10, 64)
			if convErr != nil {
				log.Fatalf("invalid employee id %q", raw)
			}
			ids = append(ids, id)
		}
		body, _ := json.Marshal(map[string]any{"employee_ids": ids})
		err = call(client, http.MethodPost, api+"/"+args[1]+"/sync", body)
	case "delete-users":
		if len(args) < 2 {
			log.Fatal("Usage: delete-users <id>")
		}
		err = call(client, http.MethodDelete, api+"/"+args[1]+"/employees", nil)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}
