package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ardiyansa/checkpointd/internal/isapi"
	"github.com/ardiyansa/checkpointd/internal/models"
	"github.com/ardiyansa/checkpointd/internal/service"
)

// CheckpointStore defines the persistence operations required by the
// checkpoint handlers.
type CheckpointStore interface {
	GetByID(ctx context.Context, id int64) (*models.Checkpoint, error)
	List(ctx context.Context) ([]models.Checkpoint, error)
	Create(ctx context.Context, cp *models.Checkpoint) (int64, error)
	Update(ctx context.Context, cp *models.Checkpoint) error
	Delete(ctx context.Context, id int64) error
}

// EmployeeLoader loads employees (with face biometric) for device actions.
type EmployeeLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
}

// CheckpointSyncService defines the synchronization operations required by
// the checkpoint handlers.
type CheckpointSyncService interface {
	SyncUserCheckpoint(ctx context.Context, cp *models.Checkpoint, emp *models.Employee) service.Result
	SyncUserFaceBiometric(ctx context.Context, cp *models.Checkpoint, emp *models.Employee) service.Result
	ModifyUserCheckpoint(ctx context.Context, cp *models.Checkpoint, emp *models.Employee) service.Result
	CheckConnectionStatus(ctx context.Context, cp *models.Checkpoint) service.Result
	DeleteUserCheckpoint(ctx context.Context, cp *models.Checkpoint, emp *models.Employee) service.Result
	DeleteAllUserCheckpoint(ctx context.Context, cp *models.Checkpoint) service.Result
	RebootCheckpoint(ctx context.Context, cp *models.Checkpoint) service.Result
	UpdateDeviceName(ctx context.Context, cp *models.Checkpoint, deviceName string) service.Result
	UpdateDeviceTimeZone(ctx context.Context, cp *models.Checkpoint) service.Result
	UpdateDeviceAccessConfig(ctx context.Context, cp *models.Checkpoint, cfg isapi.AccessConfig) service.Result
	UpdateDeviceNTPServer(ctx context.Context, cp *models.Checkpoint, hostName string, port, interval int) service.Result
	CreateDeviceHTTPHostNotification(ctx context.Context, cp *models.Checkpoint, rawURL string) service.Result
	UpdateDeviceHTTPHostNotification(ctx context.Context, cp *models.Checkpoint, rawURL string) service.Result
}

// DeviceGateway defines the captures and configuration reads performed
// directly against the protocol adapter, without workflow sequencing.
type DeviceGateway interface {
	CaptureFingerprint(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	CaptureFace(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	DeviceInfo(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	AccessConfig(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
	NTPServer(ctx context.Context, cp *models.Checkpoint) (*isapi.Result, error)
}

// CheckpointHandler handles checkpoint CRUD and device actions.
type CheckpointHandler struct {
	Checkpoints CheckpointStore
	Employees   EmployeeLoader
	Service     CheckpointSyncService
	Devices     DeviceGateway
}

// checkpointRequest is the JSON payload for creating/updating a checkpoint.
type checkpointRequest struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	MAC      string `json:"mac"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// List handles GET /api/checkpoints.
func (h *CheckpointHandler) List(w http.ResponseWriter, r *http.Request) {
	checkpoints, err := h.Checkpoints.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, checkpoints)
}

// Create handles POST /api/checkpoints.
func (h *CheckpointHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req checkpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Host == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	cp := &models.Checkpoint{
		Name:     req.Name,
		Host:     req.Host,
		MAC:      req.MAC,
		Username: req.Username,
		Password: req.Password,
	}
	id, err := h.Checkpoints.Create(r.Context(), cp)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	cp.ID = id
	writeJSON(w, http.StatusCreated, cp)
}

// Get handles GET /api/checkpoints/{id}.
func (h *CheckpointHandler) Get(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cp)
}

// Update handles PUT /api/checkpoints/{id}.
func (h *CheckpointHandler) Update(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}

	var req checkpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Host == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	cp.Name = req.Name
	cp.Host = req.Host
	cp.MAC = req.MAC
	cp.Username = req.Username
	if req.Password != "" {
		cp.Password = req.Password
	}
	if err := h.Checkpoints.Update(r.Context(), cp); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cp)
}

// Delete handles DELETE /api/checkpoints/{id}.
func (h *CheckpointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Checkpoints.Delete(r.Context(), id); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /api/checkpoints/{id}/status.
func (h *CheckpointHandler) Status(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.CheckConnectionStatus(r.Context(), cp))
}

// Reboot handles POST /api/checkpoints/{id}/reboot.
func (h *CheckpointHandler) Reboot(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.RebootCheckpoint(r.Context(), cp))
}

// employeeSyncResult is one entry of a bulk sync response.
type employeeSyncResult struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
}

// SyncEmployees handles POST /api/checkpoints/{id}/sync. It syncs the
// selected employees one by one, sequentially, and reports a per-employee
// outcome; one employee failing does not stop the rest.
func (h *CheckpointHandler) SyncEmployees(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}

	var req struct {
		EmployeeIDs []int64 `json:"employee_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.EmployeeIDs) == 0 {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	results := make([]employeeSyncResult, 0, len(req.EmployeeIDs))
	for _, employeeID := range req.EmployeeIDs {
		emp, err := h.Employees.GetByID(r.Context(), employeeID)
		if err != nil {
			results = append(results, employeeSyncResult{
				EmployeeID: employeeID,
				Success:    false,
				Message:    "Employee not found",
			})
			continue
		}

		res := h.Service.SyncUserCheckpoint(r.Context(), cp, emp)
		entry := employeeSyncResult{EmployeeID: emp.ID, Name: emp.Name, Success: res.Success}
		if res.Success {
			entry.Message = fmt.Sprintf("Assign to checkpoint %s successfully.", cp.Name)
		} else {
			entry.Message = service.SyncFailureMessage(res.Error, cp.Name)
		}
		results = append(results, entry)
	}

	writeJSON(w, http.StatusOK, results)
}

// SyncEmployee handles POST /api/checkpoints/{id}/employees/{employeeID}/sync.
func (h *CheckpointHandler) SyncEmployee(w http.ResponseWriter, r *http.Request) {
	h.employeeAction(w, r, h.Service.SyncUserCheckpoint)
}

// SyncFace handles POST /api/checkpoints/{id}/employees/{employeeID}/sync-face.
func (h *CheckpointHandler) SyncFace(w http.ResponseWriter, r *http.Request) {
	h.employeeAction(w, r, h.Service.SyncUserFaceBiometric)
}

// ModifyUser handles POST /api/checkpoints/{id}/employees/{employeeID}/modify.
func (h *CheckpointHandler) ModifyUser(w http.ResponseWriter, r *http.Request) {
	h.employeeAction(w, r, h.Service.ModifyUserCheckpoint)
}

// DeleteUser handles DELETE /api/checkpoints/{id}/employees/{employeeID}.
func (h *CheckpointHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	h.employeeAction(w, r, h.Service.DeleteUserCheckpoint)
}

// DeleteAllUsers handles DELETE /api/checkpoints/{id}/employees.
func (h *CheckpointHandler) DeleteAllUsers(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.DeleteAllUserCheckpoint(r.Context(), cp))
}

// UpdateDeviceName handles PUT /api/checkpoints/{id}/device/name.
func (h *CheckpointHandler) UpdateDeviceName(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.Service.UpdateDeviceName(r.Context(), cp, req.Name))
}

// UpdateTimeZone handles PUT /api/checkpoints/{id}/device/timezone.
func (h *CheckpointHandler) UpdateTimeZone(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.UpdateDeviceTimeZone(r.Context(), cp))
}

// UpdateAccessConfig handles PUT /api/checkpoints/{id}/device/access-config.
func (h *CheckpointHandler) UpdateAccessConfig(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}

	var cfg isapi.AccessConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.Service.UpdateDeviceAccessConfig(r.Context(), cp, cfg))
}

// UpdateNTPServer handles PUT /api/checkpoints/{id}/device/ntp.
func (h *CheckpointHandler) UpdateNTPServer(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}

	var req struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Interval int    `json:"interval"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.Service.UpdateDeviceNTPServer(r.Context(), cp, req.Host, req.Port, req.Interval))
}

// CreateEventHost handles POST /api/checkpoints/{id}/device/event-host.
func (h *CheckpointHandler) CreateEventHost(w http.ResponseWriter, r *http.Request) {
	cp, url, ok := h.loadEventHostRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.CreateDeviceHTTPHostNotification(r.Context(), cp, url))
}

// UpdateEventHost handles PUT /api/checkpoints/{id}/device/event-host.
func (h *CheckpointHandler) UpdateEventHost(w http.ResponseWriter, r *http.Request) {
	cp, url, ok := h.loadEventHostRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.UpdateDeviceHTTPHostNotification(r.Context(), cp, url))
}

// DeviceInfo handles GET /api/checkpoints/{id}/device/info. The device
// descriptor is relayed as-is; it is XML, not part of the JSON API.
func (h *CheckpointHandler) DeviceInfo(w http.ResponseWriter, r *http.Request) {
	h.relayDeviceRead(w, r, h.Devices.DeviceInfo, "text/xml")
}

// GetAccessConfig handles GET /api/checkpoints/{id}/device/access-config,
// relaying the device's current AcsCfg document.
func (h *CheckpointHandler) GetAccessConfig(w http.ResponseWriter, r *http.Request) {
	h.relayDeviceRead(w, r, h.Devices.AccessConfig, "application/json")
}

// GetNTPServer handles GET /api/checkpoints/{id}/device/ntp.
func (h *CheckpointHandler) GetNTPServer(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}

	res, err := h.Devices.NTPServer(r.Context(), cp)
	if err != nil {
		http.Error(w, "cannot connect to the checkpoint", http.StatusBadGateway)
		return
	}
	if !res.Success {
		http.Error(w, "device rejected the request", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, res.Data)
}

// CaptureFingerprint handles POST /api/checkpoints/{id}/capture/fingerprint.
// It returns the captured template data for subsequent registration.
func (h *CheckpointHandler) CaptureFingerprint(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}

	res, err := h.Devices.CaptureFingerprint(r.Context(), cp)
	if err != nil {
		http.Error(w, "cannot connect to the checkpoint", http.StatusBadGateway)
		return
	}
	if !res.Success {
		http.Error(w, "failed to capture fingerprint data", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"finger_data": res.Data})
}

// CaptureFace handles POST /api/checkpoints/{id}/capture/face. It returns
// the storage path of the captured image; the path is later submitted to
// the employee face endpoint to register the biometric.
func (h *CheckpointHandler) CaptureFace(w http.ResponseWriter, r *http.Request) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}

	res, err := h.Devices.CaptureFace(r.Context(), cp)
	if err != nil {
		http.Error(w, "cannot connect to the checkpoint", http.StatusBadGateway)
		return
	}
	if !res.Success {
		http.Error(w, "failed to capture face data", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": res.Data})
}

// employeeAction runs one per-employee device workflow and writes its result.
func (h *CheckpointHandler) employeeAction(w http.ResponseWriter, r *http.Request, action func(context.Context, *models.Checkpoint, *models.Employee) service.Result) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}

	employeeID, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid employee id", http.StatusBadRequest)
		return
	}
	emp, err := h.Employees.GetByID(r.Context(), employeeID)
	if err != nil {
		http.Error(w, "employee not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, action(r.Context(), cp, emp))
}

// relayDeviceRead forwards one adapter read and relays the raw device
// document with the given content type.
func (h *CheckpointHandler) relayDeviceRead(w http.ResponseWriter, r *http.Request, read func(context.Context, *models.Checkpoint) (*isapi.Result, error), contentType string) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return
	}

	res, err := read(r.Context(), cp)
	if err != nil {
		http.Error(w, "cannot connect to the checkpoint", http.StatusBadGateway)
		return
	}
	body, isString := res.Data.(string)
	if !res.Success || !isString {
		http.Error(w, "device rejected the request", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write([]byte(body))
}

// loadCheckpoint resolves the {id} route parameter to a checkpoint,
// writing the error response itself when that fails.
func (h *CheckpointHandler) loadCheckpoint(w http.ResponseWriter, r *http.Request) (*models.Checkpoint, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	cp, err := h.Checkpoints.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "checkpoint not found", http.StatusNotFound)
		} else {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return nil, false
	}
	return cp, true
}

// loadEventHostRequest reads the optional callback URL of an event-host
// request body. An absent body or URL falls back to the configured default.
func (h *CheckpointHandler) loadEventHostRequest(w http.ResponseWriter, r *http.Request) (*models.Checkpoint, string, bool) {
	cp, ok := h.loadCheckpoint(w, r)
	if !ok {
		return nil, "", false
	}

	var req struct {
		URL string `json:"url"`
	}
	// Body is optional; decode errors on an empty body are fine.
	_ = json.NewDecoder(r.Body).Decode(&req)

	return cp, req.URL, true
}
