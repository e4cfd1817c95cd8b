package isapi

import (
	"context"
	"encoding/json"
	"encoding/xml"

	"github.com/ardiyansa/checkpointd/internal/models"
)

// Capability fetches. Each returns the parsed capability document as the
// result payload; a body that fails to parse is reported as an
// unsuccessful result rather than an error, since it means the device does
// not speak the expected descriptor format.

// DeviceInfoCapabilities reads the deviceInfo capability descriptor.
func (c *Client) DeviceInfoCapabilities(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "GET", "/ISAPI/System/deviceInfo/capabilities", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}

	var cap DeviceInfoCapability
	if err := xml.Unmarshal(resp.Body, &cap); err != nil {
		return failure(resp), nil
	}
	return success(resp, &cap), nil
}

// TimeZoneCapabilities reads the NTP/time capability descriptor.
func (c *Client) TimeZoneCapabilities(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "GET", "/ISAPI/System/time/ntpServers/capabilities", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}

	var cap TimeCapability
	if err := xml.Unmarshal(resp.Body, &cap); err != nil {
		return failure(resp), nil
	}
	return success(resp, &cap), nil
}

// AccessConfigCapabilities reads the AcsCfg capability descriptor.
func (c *Client) AccessConfigCapabilities(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "GET", "/ISAPI/AccessControl/AcsCfg/capabilities?format=json", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}

	var cap AccessConfigCapability
	if err := json.Unmarshal(resp.Body, &cap); err != nil {
		return failure(resp), nil
	}
	return success(resp, &cap), nil
}

// HostNotificationCapabilities reads the event-host capability descriptor.
func (c *Client) HostNotificationCapabilities(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "GET", "/ISAPI/Event/notification/httpHosts/capabilities", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}

	var cap HostNotificationCapability
	if err := xml.Unmarshal(resp.Body, &cap); err != nil {
		return failure(resp), nil
	}
	return success(resp, &cap), nil
}
