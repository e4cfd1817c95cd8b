package service

import (
	"context"

	"github.com/ardiyansa/checkpointd/internal/isapi"
	"github.com/ardiyansa/checkpointd/internal/models"
)

// statusOK reports whether an adapter result carries the device's XML "OK"
// sentinel. Several configuration endpoints answer HTTP 200 with a
// ResponseStatus whose statusCode must equal 1; a merely-HTTP-ok response
// without it is a failure at this layer.
func statusOK(res *isapi.Result) bool {
	if !res.Success {
		return false
	}
	status, isStatus := res.Data.(*isapi.ResponseStatus)
	return isStatus && status.StatusCode == 1
}

// UpdateDeviceName renames the device. The deviceInfo capability document
// must declare deviceName support; the declared maximum length is applied
// by truncation before sending.
func (s *CheckpointService) UpdateDeviceName(ctx context.Context, cp *models.Checkpoint, deviceName string) Result {
	capability, err := s.devices.DeviceInfoCapabilities(ctx, cp)
	if err != nil {
		return s.fault(err)
	}
	doc, isCap := capability.Data.(*isapi.DeviceInfoCapability)
	if !capability.Success || !isCap || doc.DeviceName == nil {
		return fail(ErrCapability)
	}

	if max := doc.DeviceName.Max; max > 0 {
		if runes := []rune(deviceName); len(runes) > max {
			deviceName = string(runes[:max])
		}
	}

	update, err := s.devices.UpdateDeviceName(ctx, cp, deviceName)
	if err != nil {
		return s.fault(err)
	}
	if !update.Success {
		return Result{}
	}
	return ok()
}

// UpdateDeviceTimeZone pushes the current time with NTP mode and the
// default timezone. The device must declare NTP support, and must answer
// with the statusCode 1 sentinel.
func (s *CheckpointService) UpdateDeviceTimeZone(ctx context.Context, cp *models.Checkpoint) Result {
	capability, err := s.devices.TimeZoneCapabilities(ctx, cp)
	if err != nil {
		return s.fault(err)
	}
	doc, isCap := capability.Data.(*isapi.TimeCapability)
	if !capability.Success || !isCap || doc.NTPServer == nil {
		return fail(ErrCapability)
	}

	update, err := s.devices.UpdateTime(ctx, cp, s.now().Format("2006-01-02T15:04:05"), defaultTimeMode, defaultTimeZone)
	if err != nil {
		return s.fault(err)
	}
	if !statusOK(update) {
		return Result{}
	}
	return ok()
}

// UpdateDeviceAccessConfig writes the full AcsCfg toggle set. Voice prompt
// stays enabled and employee numbers are never desensitised, whatever the
// caller asks for.
func (s *CheckpointService) UpdateDeviceAccessConfig(ctx context.Context, cp *models.Checkpoint, cfg isapi.AccessConfig) Result {
	capability, err := s.devices.AccessConfigCapabilities(ctx, cp)
	if err != nil {
		return s.fault(err)
	}
	doc, isCap := capability.Data.(*isapi.AccessConfigCapability)
	if !capability.Success || !isCap || doc.AcsCfg == nil {
		return fail(ErrCapability)
	}

	cfg.VoicePrompt = true
	cfg.DesensitiseEmployeeNo = false

	update, err := s.devices.UpdateAccessConfig(ctx, cp, cfg)
	if err != nil {
		return s.fault(err)
	}
	if !update.Success {
		return Result{}
	}
	return ok()
}

// UpdateDeviceNTPServer writes NTP server slot 1 with the service defaults
// for any unset argument. The device must answer with the statusCode 1
// sentinel.
func (s *CheckpointService) UpdateDeviceNTPServer(ctx context.Context, cp *models.Checkpoint, hostName string, port, synchronizeInterval int) Result {
	if hostName == "" {
		hostName = s.NTPHost
	}
	if port == 0 {
		port = s.NTPPort
	}
	if synchronizeInterval == 0 {
		synchronizeInterval = s.NTPInterval
	}

	update, err := s.devices.UpdateNTPServer(ctx, cp, hostName, port, synchronizeInterval)
	if err != nil {
		return s.fault(err)
	}
	if !statusOK(update) {
		return Result{}
	}
	return ok()
}

// CreateDeviceHTTPHostNotification registers a new event-host subscription
// pointing at rawURL (the configured callback URL when empty). The new
// subscription takes the id after the last existing one.
func (s *CheckpointService) CreateDeviceHTTPHostNotification(ctx context.Context, cp *models.Checkpoint, rawURL string) Result {
	capability, err := s.devices.HostNotificationCapabilities(ctx, cp)
	if err != nil {
		return s.fault(err)
	}
	doc, isCap := capability.Data.(*isapi.HostNotificationCapability)
	if !capability.Success || !isCap || doc.HostName == nil || doc.IPAddress == nil {
		return fail(ErrCapability)
	}

	if rawURL == "" {
		rawURL = s.EventCallbackURL
	}

	existing, err := s.devices.HostNotifications(ctx, cp)
	if err != nil {
		return s.fault(err)
	}
	list, isList := existing.Data.(*isapi.HTTPHostNotificationList)
	if !existing.Success || !isList {
		return Result{}
	}

	lastID := 1
	if n := len(list.Notifications); n > 0 {
		lastID = list.Notifications[n-1].ID
	}

	create, err := s.devices.CreateHostNotification(ctx, cp, rawURL, lastID+1)
	if err != nil {
		return s.fault(err)
	}
	if !statusOK(create) {
		return Result{}
	}
	return ok()
}

// UpdateDeviceHTTPHostNotification rewrites the event-host subscription for
// rawURL (the configured callback URL when empty), reusing an existing
// subscription id so repeated configuration calls do not pile up duplicate
// subscriptions: the id of the entry whose addressing/host/port/path tuple
// already matches the target, else the first populated subscription's id,
// else 1.
func (s *CheckpointService) UpdateDeviceHTTPHostNotification(ctx context.Context, cp *models.Checkpoint, rawURL string) Result {
	capability, err := s.devices.HostNotificationCapabilities(ctx, cp)
	if err != nil {
		return s.fault(err)
	}
	doc, isCap := capability.Data.(*isapi.HostNotificationCapability)
	if !capability.Success || !isCap || doc.HostName == nil || doc.IPAddress == nil {
		return fail(ErrCapability)
	}

	if rawURL == "" {
		rawURL = s.EventCallbackURL
	}

	existing, err := s.devices.HostNotifications(ctx, cp)
	if err != nil {
		return s.fault(err)
	}
	list, isList := existing.Data.(*isapi.HTTPHostNotificationList)
	if !existing.Success || !isList {
		return Result{}
	}

	var subscriptions []isapi.HTTPHostNotification
	for _, n := range list.Notifications {
		if n.SubscribeEvent != nil && n.URL != "" {
			subscriptions = append(subscriptions, n)
		}
	}

	target, err := isapi.ParseHostTarget(rawURL, true)
	if err != nil {
		return s.fault(err)
	}

	id := 1
	if len(subscriptions) > 0 {
		id = subscriptions[0].ID
	}
	for _, n := range subscriptions {
		host := n.HostName
		if target.IsIP {
			host = n.IPAddress
		}
		if n.AddressingFormatType == target.AddressingFormat() &&
			host == target.Host &&
			n.PortNo == target.Port &&
			n.URL == target.Path {
			id = n.ID
			break
		}
	}

	update, err := s.devices.UpdateHostNotification(ctx, cp, rawURL, id)
	if err != nil {
		return s.fault(err)
	}
	if !statusOK(update) {
		return Result{}
	}
	return ok()
}
