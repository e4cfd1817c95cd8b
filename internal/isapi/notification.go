package isapi

import (
	"context"
	"encoding/xml"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/ardiyansa/checkpointd/internal/models"
)

// HostTarget is a callback URL broken into the addressing fields the
// device subscription format needs.
type HostTarget struct {
	// Protocol is the upper-cased scheme (HTTP/HTTPS).
	Protocol string
	// Host is the bare host component.
	Host string
	// Path is the URL path registered as the notification url.
	Path string
	// Port is the target port after defaulting.
	Port int
	// IsIP reports whether Host is a literal IP address, which selects
	// ipAddress over hostName addressing.
	IsIP bool
}

// AddressingFormat is "ipaddress" or "hostname" depending on the host form.
func (h HostTarget) AddressingFormat() string {
	if h.IsIP {
		return "ipaddress"
	}
	return "hostname"
}

// ParseHostTarget splits a callback URL. schemePort selects the port
// defaulting rule: the create variant always defaults to 80, the update
// variant defaults to 443 for HTTPS. The two rules are kept distinct on
// purpose; devices in the field have only been observed with the first.
func ParseHostTarget(rawURL string, schemeAware bool) (HostTarget, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return HostTarget{}, fmt.Errorf("parse callback URL: %w", err)
	}

	target := HostTarget{
		Protocol: strings.ToUpper(u.Scheme),
		Host:     u.Hostname(),
		Path:     u.Path,
		IsIP:     net.ParseIP(u.Hostname()) != nil,
	}

	target.Port = 80
	if schemeAware && target.Protocol == "HTTPS" {
		target.Port = 443
	}
	if p := u.Port(); p != "" {
		fmt.Sscanf(p, "%d", &target.Port)
	}

	return target, nil
}

// hostNotificationXML renders one-entry subscription list XML for the
// given target and subscription id.
func hostNotificationXML(target HostTarget, id int) string {
	address := fmt.Sprintf("<hostName>%s</hostName>", xmlEscape(target.Host))
	if target.IsIP {
		address = fmt.Sprintf("<ipAddress>%s</ipAddress>", target.Host)
	}

	return fmt.Sprintf(`<HttpHostNotificationList version="2.0" xmlns="%[1]s"><HttpHostNotification version="2.0" xmlns="%[1]s"><id>%d</id><url>%s</url><protocolType>%s</protocolType><parameterFormatType>XML</parameterFormatType><addressingFormatType>%s</addressingFormatType>%s<portNo>%d</portNo><httpAuthenticationMethod>none</httpAuthenticationMethod><SubscribeEvent><heartbeat>30</heartbeat><eventMode>all</eventMode></SubscribeEvent></HttpHostNotification></HttpHostNotificationList>`,
		isapiNS, id, xmlEscape(target.Path), target.Protocol, target.AddressingFormat(), address, target.Port)
}

// HostNotifications reads the device's event-subscription list.
func (c *Client) HostNotifications(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "GET", "/ISAPI/Event/notification/httpHosts", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}

	var list HTTPHostNotificationList
	if err := xml.Unmarshal(resp.Body, &list); err != nil {
		return failure(resp), nil
	}
	return success(resp, &list), nil
}

// CreateHostNotification registers a new event subscription pointing at
// rawURL. The port defaults to 80 when the URL carries none, regardless of
// scheme.
func (c *Client) CreateHostNotification(ctx context.Context, cp *models.Checkpoint, rawURL string, id int) (*Result, error) {
	target, err := ParseHostTarget(rawURL, false)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport(cp).Request(ctx, "POST", "/ISAPI/Event/notification/httpHosts", hostNotificationXML(target, id), "text/xml")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, decodeResponseStatus(resp)), nil
}

// UpdateHostNotification rewrites the event subscription with the given id.
// Unlike the create variant, a missing port defaults to 443 for HTTPS URLs.
func (c *Client) UpdateHostNotification(ctx context.Context, cp *models.Checkpoint, rawURL string, id int) (*Result, error) {
	target, err := ParseHostTarget(rawURL, true)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport(cp).Request(ctx, "PUT", "/ISAPI/Event/notification/httpHosts", hostNotificationXML(target, id), "text/xml")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, decodeResponseStatus(resp)), nil
}
