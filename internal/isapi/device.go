package isapi

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ardiyansa/checkpointd/internal/models"
)

const isapiNS = "http://www.isapi.org/ver20/XMLSchema"

// DeviceInfo reads the device descriptor as plain XML.
func (c *Client) DeviceInfo(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "GET", "/ISAPI/System/deviceInfo", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}

// UpdateDeviceInfo writes a full device descriptor.
func (c *Client) UpdateDeviceInfo(ctx context.Context, cp *models.Checkpoint, info *DeviceInfo) (*Result, error) {
	info.Version = "2.0"
	info.XMLNS = isapiNS
	body, err := xml.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("encode device info: %w", err)
	}

	resp, err := c.transport(cp).Request(ctx, "PUT", "/ISAPI/System/deviceInfo", body, "text/xml")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}

// UpdateDeviceName writes a minimal descriptor fragment carrying only the
// device name.
func (c *Client) UpdateDeviceName(ctx context.Context, cp *models.Checkpoint, name string) (*Result, error) {
	body := fmt.Sprintf(`<DeviceInfo version="2.0" xmlns="%s"><deviceName>%s</deviceName></DeviceInfo>`, isapiNS, xmlEscape(name))

	resp, err := c.transport(cp).Request(ctx, "PUT", "/ISAPI/System/deviceInfo", body, "text/xml")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}

// UpdateTime sets the device clock configuration. The payload is the
// decoded ResponseStatus; callers that need the device's OK sentinel check
// Data for StatusCode 1.
func (c *Client) UpdateTime(ctx context.Context, cp *models.Checkpoint, localTime, timeMode, timeZone string) (*Result, error) {
	body := fmt.Sprintf(`<Time><timeMode>%s</timeMode><localTime>%s</localTime><timeZone>%s</timeZone></Time>`,
		xmlEscape(timeMode), xmlEscape(localTime), xmlEscape(timeZone))

	resp, err := c.transport(cp).Request(ctx, "PUT", "/ISAPI/System/time", body, "text/xml")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, decodeResponseStatus(resp)), nil
}

// AccessConfig reads the current AcsCfg document.
func (c *Client) AccessConfig(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "GET", "/ISAPI/AccessControl/AcsCfg?format=json", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}

// UpdateAccessConfig writes the full AcsCfg toggle set.
func (c *Client) UpdateAccessConfig(ctx context.Context, cp *models.Checkpoint, cfg AccessConfig) (*Result, error) {
	return c.putJSON(ctx, cp, "/ISAPI/AccessControl/AcsCfg?format=json", accessConfigEnvelope{AcsCfg: cfg})
}

// NTPServer reads the configuration of NTP server slot 1.
func (c *Client) NTPServer(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "GET", "/ISAPI/System/time/ntpServers/1", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}

	var server NTPServer
	if err := xml.Unmarshal(resp.Body, &server); err != nil {
		return failure(resp), nil
	}
	return success(resp, &server), nil
}

// UpdateNTPServer writes NTP server slot 1.
func (c *Client) UpdateNTPServer(ctx context.Context, cp *models.Checkpoint, hostName string, port, synchronizeInterval int) (*Result, error) {
	body := fmt.Sprintf(`<NTPServer version="2.0" xmlns="%s"><id>1</id><addressingFormatType>hostname</addressingFormatType><hostName>%s</hostName><portNo>%d</portNo><synchronizeInterval>%d</synchronizeInterval></NTPServer>`,
		isapiNS, xmlEscape(hostName), port, synchronizeInterval)

	resp, err := c.transport(cp).Request(ctx, "PUT", "/ISAPI/System/time/ntpServers/1", body, "text/xml")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, decodeResponseStatus(resp)), nil
}

// Reboot restarts the device.
func (c *Client) Reboot(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "PUT", "/ISAPI/System/reboot", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}

// decodeResponseStatus parses the device's XML acknowledgement, returning
// nil when the body is not one.
func decodeResponseStatus(resp *Response) *ResponseStatus {
	var status ResponseStatus
	if err := xml.Unmarshal(resp.Body, &status); err != nil {
		return nil
	}
	return &status
}

// xmlEscaper escapes text interpolated into XML request fragments.
var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
