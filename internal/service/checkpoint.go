// Package service implements the synchronization workflows that sequence
// device operations against checkpoints. Every method converts failures
// from the layers below into a Result: a specific error kind when the
// failing step is identifiable, a kind-less failure otherwise. Callers
// never receive an unhandled fault from this layer.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ardiyansa/checkpointd/internal/isapi"
	"github.com/ardiyansa/checkpointd/internal/models"
)

// Error kinds surfaced to callers. The set is closed; anything outside it
// is reported as a kind-less generic failure.
const (
	ErrUserDelete        = "user_delete"
	ErrUserCreate        = "user_create"
	ErrFace              = "face"
	ErrFingerprint       = "fingerprint"
	ErrCard              = "card"
	ErrFaceDelete        = "face_delete"
	ErrFingerprintDelete = "fingerprint_delete"
	ErrCardDelete        = "card_delete"
	ErrUserModify        = "user_modify"
	ErrRebootDevice      = "reboot_device"
	ErrCapability        = "capability"
	ErrOffline           = "offline"
)

// Device clock defaults pushed by UpdateDeviceTimeZone.
const (
	defaultTimeMode = "NTP"
	defaultTimeZone = "CST-7:00:00"
)

// Result is the outward-facing envelope of every service method: pass/fail
// plus an optional error kind. The service's job is orchestration, not data
// return, so there is no payload.
type Result struct {
	// Success reports whether the whole workflow completed.
	Success bool `json:"success"`
	// Error is the kind of the first failing step, or empty for a
	// generic failure (and for success).
	Error string `json:"error,omitempty"`
}

func ok() Result {
	return Result{Success: true}
}

func fail(kind string) Result {
	return Result{Success: false, Error: kind}
}

// DeviceAPI is the slice of the protocol adapter the service orchestrates.
type DeviceAPI interface {
	UserDelete(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error)
	UserDeleteAll(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	UserStore(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error)
	UserModify(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error)
	UserCount(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	FaceStore(ctx context.Context, cp *models.Checkpoint, employeeNo, faceData, bornTime string) (*isapi.Result, error)
	FaceDelete(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error)
	DeviceInfoCapabilities(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	UpdateDeviceName(ctx context.Context, cp *models.Checkpoint, name string) (*isapi.Result, error)
	TimeZoneCapabilities(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	UpdateTime(ctx context.Context, cp *models.Checkpoint, localTime, timeMode, timeZone string) (*isapi.Result, error)
	AccessConfigCapabilities(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	UpdateAccessConfig(ctx context.Context, cp *models.Checkpoint, cfg isapi.AccessConfig) (*isapi.Result, error)
	HostNotificationCapabilities(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	HostNotifications(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	CreateHostNotification(ctx context.Context, cp *models.Checkpoint, rawURL string, id int) (*isapi.Result, error)
	UpdateHostNotification(ctx context.Context, cp *models.Checkpoint, rawURL string, id int) (*isapi.Result, error)
	UpdateNTPServer(ctx context.Context, cp *models.Checkpoint, hostName string, port, synchronizeInterval int) (*isapi.Result, error)
	Reboot(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
}

// CheckpointService orchestrates multi-step device workflows.
type CheckpointService struct {
	devices DeviceAPI
	log     *zap.Logger

	// EventCallbackURL is the default URL registered for event-host
	// subscriptions when the caller supplies none.
	EventCallbackURL string
	// NTPHost, NTPPort and NTPInterval are the defaults pushed by
	// UpdateDeviceNTPServer when the caller supplies none.
	NTPHost     string
	NTPPort     int
	NTPInterval int

	// now is the clock used for validity-window computation.
	now func() time.Time
}

// NewCheckpointService constructs a CheckpointService over the given
// protocol adapter.
func NewCheckpointService(devices DeviceAPI, log *zap.Logger) *CheckpointService {
	return &CheckpointService{
		devices: devices,
		log:     log,
		now:     time.Now,
	}
}

// fault logs an unanticipated failure and reports it as a kind-less
// generic failure.
func (s *CheckpointService) fault(err error) Result {
	s.log.Warn("checkpoint operation failed", zap.Error(err))
	return Result{}
}

// SyncUserCheckpoint pushes an employee to a checkpoint: delete any stale
// user record, create a fresh one, then push the face biometric if one is
// registered. Deleting first guarantees no duplicate or stale state
// survives a re-sync; any failing step aborts the remaining steps.
func (s *CheckpointService) SyncUserCheckpoint(ctx context.Context, cp *models.Checkpoint, emp *models.Employee) Result {
	del, err := s.devices.UserDelete(ctx, cp, emp.EmployeeNo)
	if err != nil {
		return s.fault(err)
	}
	if !del.Success {
		return fail(ErrUserDelete)
	}

	store, err := s.devices.UserStore(ctx, cp, emp.EmployeeNo, emp.Name, nil, nil)
	if err != nil {
		return s.fault(err)
	}
	if !store.Success {
		return fail(ErrUserCreate)
	}

	if emp.FaceBiometric != nil {
		face, err := s.devices.FaceStore(ctx, cp, emp.EmployeeNo, emp.FaceBiometric.Data, "")
		if err != nil {
			return s.fault(err)
		}
		if !face.Success {
			return fail(ErrFace)
		}
	}

	return ok()
}

// SyncUserFaceBiometric refreshes only the face-library entry of an
// employee: delete the existing entry, then push the current biometric if
// one is registered. Used when only biometric data changed, to avoid a
// full user-record rewrite.
func (s *CheckpointService) SyncUserFaceBiometric(ctx context.Context, cp *models.Checkpoint, emp *models.Employee) Result {
	del, err := s.devices.FaceDelete(ctx, cp, emp.EmployeeNo)
	if err != nil {
		return s.fault(err)
	}
	if !del.Success {
		return fail(ErrFaceDelete)
	}

	if emp.FaceBiometric != nil {
		face, err := s.devices.FaceStore(ctx, cp, emp.EmployeeNo, emp.FaceBiometric.Data, "")
		if err != nil {
			return s.fault(err)
		}
		if !face.Success {
			return fail(ErrFace)
		}
	}

	return ok()
}

// ModifyUserCheckpoint rewrites the employee's user record, recomputing the
// validity window from the resignation date when one is set: the window
// ends at the resignation date, and begins one week earlier unless that
// start would still be in the future.
func (s *CheckpointService) ModifyUserCheckpoint(ctx context.Context, cp *models.Checkpoint, emp *models.Employee) Result {
	var validStart, validEnd *time.Time
	if emp.ResignDate != nil {
		end := *emp.ResignDate
		validEnd = &end

		start := end.AddDate(0, 0, -7)
		if !start.After(s.now()) {
			validStart = &start
		}
	}

	modify, err := s.devices.UserModify(ctx, cp, emp.EmployeeNo, emp.Name, validStart, validEnd)
	if err != nil {
		return s.fault(err)
	}
	if !modify.Success {
		return fail(ErrUserModify)
	}

	return ok()
}

// CheckConnectionStatus probes the checkpoint with a lightweight user-count
// read. Any failure is reported as offline.
func (s *CheckpointService) CheckConnectionStatus(ctx context.Context, cp *models.Checkpoint) Result {
	count, err := s.devices.UserCount(ctx, cp)
	if err != nil {
		s.log.Warn("connection check failed", zap.String("checkpoint", cp.Name), zap.Error(err))
		return fail(ErrOffline)
	}
	if !count.Success {
		return fail(ErrOffline)
	}
	return ok()
}

// DeleteUserCheckpoint removes one employee's user record from the device.
func (s *CheckpointService) DeleteUserCheckpoint(ctx context.Context, cp *models.Checkpoint, emp *models.Employee) Result {
	del, err := s.devices.UserDelete(ctx, cp, emp.EmployeeNo)
	if err != nil {
		return s.fault(err)
	}
	if !del.Success {
		return fail(ErrUserDelete)
	}
	return ok()
}

// DeleteAllUserCheckpoint removes every user record from the device.
func (s *CheckpointService) DeleteAllUserCheckpoint(ctx context.Context, cp *models.Checkpoint) Result {
	del, err := s.devices.UserDeleteAll(ctx, cp)
	if err != nil {
		return s.fault(err)
	}
	if !del.Success {
		return fail(ErrUserDelete)
	}
	return ok()
}

// RebootCheckpoint restarts the device.
func (s *CheckpointService) RebootCheckpoint(ctx context.Context, cp *models.Checkpoint) Result {
	reboot, err := s.devices.Reboot(ctx, cp)
	if err != nil {
		return s.fault(err)
	}
	if !reboot.Success {
		return fail(ErrRebootDevice)
	}
	return ok()
}
