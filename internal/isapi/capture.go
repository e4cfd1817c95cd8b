package isapi

import (
	"context"
	"strconv"
	"strings"

	"github.com/ardiyansa/checkpointd/internal/blob"
	"github.com/ardiyansa/checkpointd/internal/models"
)

const (
	captureFingerprintCond = `<CaptureFingerPrintCond version="2.0" xmlns="http://www.isapi.org/ver20/XMLSchema"><fingerNo>1</fingerNo></CaptureFingerPrintCond>`
	captureFaceCond        = `<CaptureFaceDataCond version="2.0" xmlns="http://www.isapi.org/ver20/XMLSchema"><dataType>binary</dataType></CaptureFaceDataCond>`

	// faceHeaderLen is the fixed header the device prepends to the JPEG
	// payload of a face capture response.
	faceHeaderLen = 360
)

// textBetween returns the substring of s between the first occurrence of
// open and the next occurrence of close, or "" if either marker is missing.
// Capture responses embed their payload in wrapper content that is not
// well-formed XML, so marker extraction is deliberate here.
func textBetween(s, open, close string) string {
	start := strings.Index(s, open)
	if start < 0 {
		return ""
	}
	start += len(open)
	end := strings.Index(s[start:], close)
	if end < 0 {
		return ""
	}
	return s[start : start+end]
}

// CaptureFingerprint asks the device to scan a finger and returns the
// template data embedded between the fingerData markers of the response.
func (c *Client) CaptureFingerprint(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "POST", "/ISAPI/AccessControl/CaptureFingerPrint", captureFingerprintCond, "application/xml")
	if err != nil {
		return nil, err
	}

	if resp.Status != 200 {
		return failure(resp), nil
	}
	return success(resp, textBetween(string(resp.Body), "<fingerData>", "</fingerData>")), nil
}

// CaptureFace asks the device to capture a face image. The response body is
// binary: a fixed header followed by raw JPEG. The JPEG is persisted to the
// artifact store and the stored path is returned as the result payload.
// A zero captureProgress means the device produced no image.
func (c *Client) CaptureFace(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "POST", "/ISAPI/AccessControl/CaptureFaceData", captureFaceCond, "application/xml")
	if err != nil {
		return nil, err
	}

	progress, _ := strconv.Atoi(strings.TrimSpace(textBetween(string(resp.Body), "<captureProgress>", "</captureProgress>")))
	if resp.Status != 200 || progress == 0 {
		return failure(resp), nil
	}

	if len(resp.Body) <= faceHeaderLen {
		return failure(resp), nil
	}
	payload := resp.Body[faceHeaderLen:]

	path := blob.UniquePath("jpeg")
	if err := c.blobs.Put(path, payload); err != nil {
		return nil, err
	}

	return success(resp, path), nil
}
