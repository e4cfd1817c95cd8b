package isapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ardiyansa/checkpointd/internal/blob"
	"github.com/ardiyansa/checkpointd/internal/models"
)

// defaultBornTime fills the mandatory bornTime field when the caller has
// no birth date on record.
const defaultBornTime = "2003-08-11"

// FaceStore pushes a face image into the device's face library. faceData is
// the base64-encoded JPEG held on the employee's biometric record; it is
// staged in the artifact store so the device can fetch it by URL, and the
// staged blob is deleted after the call regardless of outcome.
//
// Two-path state machine: the store attempt succeeds only when the device
// answers statusCode 1. If the store attempt faults at the transport level,
// the fault is logged and the face library is searched instead — a record
// already registered under the employee number counts as success.
func (c *Client) FaceStore(ctx context.Context, cp *models.Checkpoint, employeeNo, faceData, bornTime string) (*Result, error) {
	image, err := base64.StdEncoding.DecodeString(faceData)
	if err != nil {
		return nil, fmt.Errorf("decode face payload: %w", err)
	}

	path := blob.UniquePath("jpeg")
	if err := c.blobs.Put(path, image); err != nil {
		return nil, err
	}
	defer func() {
		if err := c.blobs.Delete(path); err != nil {
			c.log.Warn("failed to delete staged face blob", zap.String("path", path), zap.Error(err))
		}
	}()

	if bornTime == "" {
		bornTime = defaultBornTime
	}
	record := faceRecord{
		FaceURL:     c.blobs.URL(path),
		FaceLibType: "blackFD",
		FDID:        "1",
		FPID:        employeeNo,
		Name:        "Employee Face " + employeeNo,
		BornTime:    bornTime,
	}

	resp, storeErr := c.transport(cp).Request(ctx, "POST", "/ISAPI/Intelligent/FDLib/FaceDataRecord?format=json", record, "application/json")
	if storeErr == nil {
		var status statusEnvelope
		if json.Unmarshal(resp.Body, &status) == nil && status.StatusCode == 1 {
			return success(resp, string(resp.Body)), nil
		}
		return failure(resp), nil
	}

	// Store attempt faulted; check whether the face is already registered.
	c.log.Error("face store failed, checking face library", zap.String("employee_no", employeeNo), zap.Error(storeErr))

	cond := fdSearchCond{
		SearchResultPosition: 0,
		MaxResults:           100,
		FaceLibType:          "blackFD",
		FDID:                 "1",
		FPID:                 employeeNo,
	}
	searchResp, err := c.transport(cp).Request(ctx, "POST", "/ISAPI/Intelligent/FDLib/FDSearch?format=json", cond, "application/json")
	if err != nil {
		return nil, err
	}

	var result fdSearchResult
	if json.Unmarshal(searchResp.Body, &result) == nil &&
		len(result.MatchList) > 0 && result.MatchList[0].FPID != "" {
		return success(searchResp, string(searchResp.Body)), nil
	}
	return failure(searchResp), nil
}

// FaceDelete removes the employee's face-library entry. Success is HTTP-ok
// only; the device does not confirm the deletion in the body.
func (c *Client) FaceDelete(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*Result, error) {
	body := faceDeleteEnvelope{FPID: []fpidValue{{Value: employeeNo}}}
	return c.putJSON(ctx, cp, "/ISAPI/Intelligent/FDLib/FDSearch/Delete?format=json&FDID=1&faceLibType=blackFD", body)
}
