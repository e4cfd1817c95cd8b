package isapi

import (
	"time"

	"go.uber.org/zap"

	"github.com/ardiyansa/checkpointd/internal/blob"
	"github.com/ardiyansa/checkpointd/internal/models"
)

// timeLayout is the local date-time format the device protocol expects.
// No timezone suffix: the device interprets values in its own local time.
const timeLayout = "2006-01-02T15:04:05"

// Client encodes device operations against checkpoints. It is stateless
// between calls: every operation builds a fresh digest transport from the
// checkpoint's credentials, so one Client serves any number of devices.
type Client struct {
	blobs   blob.Store
	log     *zap.Logger
	timeout time.Duration

	// now is the clock used for validity-window defaults.
	now func() time.Time
}

// NewClient builds a Client. blobs stages captured and uploaded face
// payloads; timeout bounds each device round trip.
func NewClient(blobs blob.Store, log *zap.Logger, timeout time.Duration) *Client {
	return &Client{
		blobs:   blobs,
		log:     log,
		timeout: timeout,
		now:     time.Now,
	}
}

func (c *Client) transport(cp *models.Checkpoint) *Transport {
	return NewTransport(cp, c.timeout)
}
