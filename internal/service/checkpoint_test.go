package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ardiyansa/checkpointd/internal/isapi"
	"github.com/ardiyansa/checkpointd/internal/models"
)

// mockDeviceAPI delegates every adapter operation to an optional func
// field. Tests set only the operations they expect; an unexpected call
// panics on the nil field, failing the test loudly.
type mockDeviceAPI struct {
	UserDeleteFunc                   func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error)
	UserDeleteAllFunc                func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	UserStoreFunc                    func(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error)
	UserModifyFunc                   func(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error)
	UserCountFunc                    func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	FaceStoreFunc                    func(ctx context.Context, cp *models.Checkpoint, employeeNo, faceData, bornTime string) (*isapi.Result, error)
	FaceDeleteFunc                   func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error)
	DeviceInfoCapabilitiesFunc       func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	UpdateDeviceNameFunc             func(ctx context.Context, cp *models.Checkpoint, name string) (*isapi.Result, error)
	TimeZoneCapabilitiesFunc         func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	UpdateTimeFunc                   func(ctx context.Context, cp *models.Checkpoint, localTime, timeMode, timeZone string) (*isapi.Result, error)
	AccessConfigCapabilitiesFunc     func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	UpdateAccessConfigFunc           func(ctx context.Context, cp *models.Checkpoint, cfg isapi.AccessConfig) (*isapi.Result, error)
	HostNotificationCapabilitiesFunc func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	HostNotificationsFunc            func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	CreateHostNotificationFunc       func(ctx context.Context, cp *models.Checkpoint, rawURL string, id int) (*isapi.Result, error)
	UpdateHostNotificationFunc       func(ctx context.Context, cp *models.Checkpoint, rawURL string, id int) (*isapi.Result, error)
	UpdateNTPServerFunc              func(ctx context.Context, cp *models.Checkpoint, hostName string, port, synchronizeInterval int) (*isapi.Result, error)
	RebootFunc                       func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
}

func (m *mockDeviceAPI) UserDelete(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
	return m.UserDeleteFunc(ctx, cp, employeeNo)
}
func (m *mockDeviceAPI) UserDeleteAll(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
	return m.UserDeleteAllFunc(ctx, cp)
}
func (m *mockDeviceAPI) UserStore(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error) {
	return m.UserStoreFunc(ctx, cp, employeeNo, name, validStart, validEnd)
}
func (m *mockDeviceAPI) UserModify(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error) {
	return m.UserModifyFunc(ctx, cp, employeeNo, name, validStart, validEnd)
}
func (m *mockDeviceAPI) UserCount(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
	return m.UserCountFunc(ctx, cp)
}
func (m *mockDeviceAPI) FaceStore(ctx context.Context, cp *models.Checkpoint, employeeNo, faceData, bornTime string) (*isapi.Result, error) {
	return m.FaceStoreFunc(ctx, cp, employeeNo, faceData, bornTime)
}
func (m *mockDeviceAPI) FaceDelete(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
	return m.FaceDeleteFunc(ctx, cp, employeeNo)
}
func (m *mockDeviceAPI) DeviceInfoCapabilities(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
	return m.DeviceInfoCapabilitiesFunc(ctx, cp)
}
func (m *mockDeviceAPI) UpdateDeviceName(ctx context.Context, cp *models.Checkpoint, name string) (*isapi.Result, error) {
	return m.UpdateDeviceNameFunc(ctx, cp, name)
}
func (m *mockDeviceAPI) TimeZoneCapabilities(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
	return m.TimeZoneCapabilitiesFunc(ctx, cp)
}
func (m *mockDeviceAPI) UpdateTime(ctx context.Context, cp *models.Checkpoint, localTime, timeMode, timeZone string) (*isapi.Result, error) {
	return m.UpdateTimeFunc(ctx, cp, localTime, timeMode, timeZone)
}
func (m *mockDeviceAPI) AccessConfigCapabilities(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
	return m.AccessConfigCapabilitiesFunc(ctx, cp)
}
func (m *mockDeviceAPI) UpdateAccessConfig(ctx context.Context, cp *models.Checkpoint, cfg isapi.AccessConfig) (*isapi.Result, error) {
	return m.UpdateAccessConfigFunc(ctx, cp, cfg)
}
func (m *mockDeviceAPI) HostNotificationCapabilities(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
	return m.HostNotificationCapabilitiesFunc(ctx, cp)
}
func (m *mockDeviceAPI) HostNotifications(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
	return m.HostNotificationsFunc(ctx, cp)
}
func (m *mockDeviceAPI) CreateHostNotification(ctx context.Context, cp *models.Checkpoint, rawURL string, id int) (*isapi.Result, error) {
	return m.CreateHostNotificationFunc(ctx, cp, rawURL, id)
}
func (m *mockDeviceAPI) UpdateHostNotification(ctx context.Context, cp *models.Checkpoint, rawURL string, id int) (*isapi.Result, error) {
	return m.UpdateHostNotificationFunc(ctx, cp, rawURL, id)
}
func (m *mockDeviceAPI) UpdateNTPServer(ctx context.Context, cp *models.Checkpoint, hostName string, port, synchronizeInterval int) (*isapi.Result, error) {
	return m.UpdateNTPServerFunc(ctx, cp, hostName, port, synchronizeInterval)
}
func (m *mockDeviceAPI) Reboot(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
	return m.RebootFunc(ctx, cp)
}

var testCheckpoint = &models.Checkpoint{ID: 1, Name: "lobby", Host: "10.0.0.5"}

func testEmployee(face string) *models.Employee {
	emp := &models.Employee{ID: 7, EmployeeNo: "1001", Name: "Budi"}
	if face != "" {
		emp.FaceBiometric = &models.Biometric{EmployeeID: 7, Kind: string(models.KindFace), Data: face}
	}
	return emp
}

func okResult() (*isapi.Result, error)   { return &isapi.Result{Success: true}, nil }
func failResult() (*isapi.Result, error) { return &isapi.Result{Success: false}, nil }

func newTestService(devices DeviceAPI) *CheckpointService {
	return NewCheckpointService(devices, zap.NewNop())
}

func TestSyncUserCheckpoint_FullChain(t *testing.T) {
	var calls []string
	devices := &mockDeviceAPI{
		UserDeleteFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
			calls = append(calls, "delete:"+employeeNo)
			return okResult()
		},
		UserStoreFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error) {
			calls = append(calls, "store:"+employeeNo)
			if validStart != nil || validEnd != nil {
				t.Error("sync must use the default validity window")
			}
			return okResult()
		},
		FaceStoreFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, faceData, bornTime string) (*isapi.Result, error) {
			calls = append(calls, "face:"+employeeNo)
			if faceData != "aW1hZ2U=" {
				t.Errorf("faceData = %q; want the employee's biometric", faceData)
			}
			return okResult()
		},
	}
	svc := newTestService(devices)

	res := svc.SyncUserCheckpoint(context.Background(), testCheckpoint, testEmployee("aW1hZ2U="))
	if !res.Success {
		t.Fatalf("result = %+v; want success", res)
	}

	want := []string{"delete:1001", "store:1001", "face:1001"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v; want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v; want %v", calls, want)
		}
	}
}

func TestSyncUserCheckpoint_Rerun(t *testing.T) {
	var calls []string
	record := func(op string) func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
		return func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
			calls = append(calls, op)
			return okResult()
		}
	}
	devices := &mockDeviceAPI{
		UserDeleteFunc: record("delete"),
		UserStoreFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error) {
			calls = append(calls, "store")
			return okResult()
		},
		FaceStoreFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, faceData, bornTime string) (*isapi.Result, error) {
			calls = append(calls, "face")
			return okResult()
		},
	}
	svc := newTestService(devices)

	emp := testEmployee("aW1hZ2U=")
	for run := 0; run < 2; run++ {
		if res := svc.SyncUserCheckpoint(context.Background(), testCheckpoint, emp); !res.Success {
			t.Fatalf("run %d: result = %+v; want success", run, res)
		}
	}

	// The second run removes the record the first run created, then
	// recreates it through the same sequence of calls.
	want := []string{"delete", "store", "face", "delete", "store", "face"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v; want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v; want %v", calls, want)
		}
	}
}

func TestSyncUserCheckpoint_DeleteFailureStopsChain(t *testing.T) {
	devices := &mockDeviceAPI{
		UserDeleteFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
			return failResult()
		},
		UserStoreFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error) {
			t.Error("UserStore must not be called after a failed delete")
			return okResult()
		},
	}
	svc := newTestService(devices)

	res := svc.SyncUserCheckpoint(context.Background(), testCheckpoint, testEmployee(""))
	if res.Success || res.Error != ErrUserDelete {
		t.Errorf("result = %+v; want %s", res, ErrUserDelete)
	}
}

func TestSyncUserCheckpoint_SkipsFaceWithoutBiometric(t *testing.T) {
	devices := &mockDeviceAPI{
		UserDeleteFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
			return okResult()
		},
		UserStoreFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error) {
			return okResult()
		},
		FaceStoreFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, faceData, bornTime string) (*isapi.Result, error) {
			t.Error("FaceStore must not be called without a face biometric")
			return okResult()
		},
	}
	svc := newTestService(devices)

	if res := svc.SyncUserCheckpoint(context.Background(), testCheckpoint, testEmployee("")); !res.Success {
		t.Errorf("result = %+v; want success", res)
	}
}

func TestSyncUserCheckpoint_FaceFailure(t *testing.T) {
	devices := &mockDeviceAPI{
		UserDeleteFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
			return okResult()
		},
		UserStoreFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error) {
			return okResult()
		},
		FaceStoreFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, faceData, bornTime string) (*isapi.Result, error) {
			return failResult()
		},
	}
	svc := newTestService(devices)

	res := svc.SyncUserCheckpoint(context.Background(), testCheckpoint, testEmployee("aW1hZ2U="))
	if res.Success || res.Error != ErrFace {
		t.Errorf("result = %+v; want %s", res, ErrFace)
	}
}

func TestSyncUserCheckpoint_TransportFaultIsGenericFailure(t *testing.T) {
	devices := &mockDeviceAPI{
		UserDeleteFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(devices)

	res := svc.SyncUserCheckpoint(context.Background(), testCheckpoint, testEmployee(""))
	if res.Success || res.Error != "" {
		t.Errorf("result = %+v; want kind-less failure", res)
	}
}

func TestSyncUserFaceBiometric_DeleteThenStore(t *testing.T) {
	var calls []string
	devices := &mockDeviceAPI{
		FaceDeleteFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
			calls = append(calls, "delete")
			return okResult()
		},
		FaceStoreFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, faceData, bornTime string) (*isapi.Result, error) {
			calls = append(calls, "store")
			return okResult()
		},
	}
	svc := newTestService(devices)

	if res := svc.SyncUserFaceBiometric(context.Background(), testCheckpoint, testEmployee("aW1hZ2U=")); !res.Success {
		t.Fatalf("result = %+v; want success", res)
	}
	if len(calls) != 2 || calls[0] != "delete" || calls[1] != "store" {
		t.Errorf("calls = %v; want delete then store", calls)
	}
}

func TestSyncUserFaceBiometric_DeleteFailure(t *testing.T) {
	devices := &mockDeviceAPI{
		FaceDeleteFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*isapi.Result, error) {
			return failResult()
		},
	}
	svc := newTestService(devices)

	res := svc.SyncUserFaceBiometric(context.Background(), testCheckpoint, testEmployee("aW1hZ2U="))
	if res.Success || res.Error != ErrFaceDelete {
		t.Errorf("result = %+v; want %s", res, ErrFaceDelete)
	}
}

func TestModifyUserCheckpoint_ResignationWindow(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	resign := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	var gotStart, gotEnd *time.Time
	devices := &mockDeviceAPI{
		UserModifyFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error) {
			gotStart, gotEnd = validStart, validEnd
			return okResult()
		},
	}
	svc := newTestService(devices)
	svc.now = func() time.Time { return now }

	emp := testEmployee("")
	emp.ResignDate = &resign

	if res := svc.ModifyUserCheckpoint(context.Background(), testCheckpoint, emp); !res.Success {
		t.Fatalf("result = %+v; want success", res)
	}
	if gotEnd == nil || !gotEnd.Equal(resign) {
		t.Errorf("validEnd = %v; want resignation date", gotEnd)
	}
	wantStart := resign.AddDate(0, 0, -7)
	if gotStart == nil || !gotStart.Equal(wantStart) {
		t.Errorf("validStart = %v; want one week before resignation", gotStart)
	}
}

func TestModifyUserCheckpoint_FutureWindowStartOmitted(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	resign := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	var gotStart *time.Time
	devices := &mockDeviceAPI{
		UserModifyFunc: func(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*isapi.Result, error) {
			gotStart = validStart
			return okResult()
		},
	}
	svc := newTestService(devices)
	svc.now = func() time.Time { return now }

	emp := testEmployee("")
	emp.ResignDate = &resign

	if res := svc.ModifyUserCheckpoint(context.Background(), testCheckpoint, emp); !res.Success {
		t.Fatalf("result = %+v; want success", res)
	}
	if gotStart != nil {
		t.Errorf("validStart = %v; want nil while the window start is in the future", gotStart)
	}
}

func TestCheckConnectionStatus(t *testing.T) {
	tests := []struct {
		name    string
		count   func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
		wantErr string
	}{
		{
			name:  "online",
			count: func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) { return okResult() },
		},
		{
			name:    "device rejects probe",
			count:   func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) { return failResult() },
			wantErr: ErrOffline,
		},
		{
			name: "transport fault",
			count: func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
				return nil, errors.New("timeout")
			},
			wantErr: ErrOffline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockDeviceAPI{UserCountFunc: tt.count})
			res := svc.CheckConnectionStatus(context.Background(), testCheckpoint)
			if tt.wantErr == "" {
				if !res.Success {
					t.Errorf("result = %+v; want success", res)
				}
			} else if res.Success || res.Error != tt.wantErr {
				t.Errorf("result = %+v; want %s", res, tt.wantErr)
			}
		})
	}
}

func TestDeleteAllUserCheckpoint(t *testing.T) {
	devices := &mockDeviceAPI{
		UserDeleteAllFunc: func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
			return okResult()
		},
	}
	svc := newTestService(devices)

	if res := svc.DeleteAllUserCheckpoint(context.Background(), testCheckpoint); !res.Success {
		t.Errorf("result = %+v; want success", res)
	}
}

func TestRebootCheckpoint_Failure(t *testing.T) {
	devices := &mockDeviceAPI{
		RebootFunc: func(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error) {
			return failResult()
		},
	}
	svc := newTestService(devices)

	res := svc.RebootCheckpoint(context.Background(), testCheckpoint)
	if res.Success || res.Error != ErrRebootDevice {
		t.Errorf("result = %+v; want %s", res, ErrRebootDevice)
	}
}

func TestSyncFailureMessage(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{ErrUserDelete, "Assign to checkpoint lobby failed. checkpoint offline."},
		{ErrUserCreate, "Assign to checkpoint lobby failed. failed to create user checkpoint."},
		{ErrFace, "Assign to checkpoint lobby failed. failed to create user face checkpoint."},
		{ErrFingerprint, "Assign to checkpoint lobby failed. failed to create user fingerprint checkpoint."},
		{ErrCard, "Assign to checkpoint lobby failed. failed to create user card checkpoint."},
		{"", "Assign to checkpoint lobby failed."},
		{"something_else", "Assign to checkpoint lobby failed."},
	}

	for _, tt := range tests {
		if got := SyncFailureMessage(tt.kind, "lobby"); got != tt.want {
			t.Errorf("SyncFailureMessage(%q) = %q; want %q", tt.kind, got, tt.want)
		}
	}
}
