package http

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ardiyansa/checkpointd/internal/blob"
	"github.com/ardiyansa/checkpointd/internal/models"
)

// EmployeeStore defines the persistence operations required by the
// employee handlers.
type EmployeeStore interface {
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Create(ctx context.Context, emp *models.Employee) (int64, error)
	Update(ctx context.Context, emp *models.Employee) error
	SoftDelete(ctx context.Context, id int64) error
	UpsertBiometric(ctx context.Context, b *models.Biometric) error
	DeleteBiometric(ctx context.Context, employeeID int64, kind models.BiometricKind) error
}

// EmployeeHandler handles employee CRUD and face biometric registration.
type EmployeeHandler struct {
	Employees EmployeeStore
	Blobs     blob.Store
}

// employeeRequest is the JSON payload for creating/updating an employee.
type employeeRequest struct {
	EmployeeNo string `json:"employee_no"`
	Name       string `json:"name"`
	ResignDate string `json:"resign_date"`
}

// List handles GET /api/employees.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Employees.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

// Create handles POST /api/employees.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeNo == "" || req.Name == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	emp := &models.Employee{EmployeeNo: req.EmployeeNo, Name: req.Name}
	if req.ResignDate != "" {
		t, err := time.Parse("2006-01-02", req.ResignDate)
		if err != nil {
			http.Error(w, "invalid resign_date", http.StatusBadRequest)
			return
		}
		emp.ResignDate = &t
	}

	id, err := h.Employees.Create(r.Context(), emp)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	emp.ID = id
	writeJSON(w, http.StatusCreated, emp)
}

// Get handles GET /api/employees/{id}.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

// Update handles PUT /api/employees/{id}.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeNo == "" || req.Name == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	emp.EmployeeNo = req.EmployeeNo
	emp.Name = req.Name
	emp.ResignDate = nil
	if req.ResignDate != "" {
		t, err := time.Parse("2006-01-02", req.ResignDate)
		if err != nil {
			http.Error(w, "invalid resign_date", http.StatusBadRequest)
			return
		}
		emp.ResignDate = &t
	}

	if err := h.Employees.Update(r.Context(), emp); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

// Delete handles DELETE /api/employees/{id}. Rows are soft-deleted so
// device-side removals can still be reconciled afterwards; a background
// cleaner purges them for good.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Employees.SoftDelete(r.Context(), id); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveFaceBiometric handles PUT /api/employees/{id}/face. The image
// arrives either as base64 data directly, or as the storage path of a
// previously captured image; a staged capture is consumed (deleted)
// once stored on the employee.
func (h *EmployeeHandler) SaveFaceBiometric(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	var req struct {
		Data string `json:"data"`
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || (req.Data == "" && req.Path == "") {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	data := req.Data
	if data == "" {
		raw, err := h.Blobs.Get(req.Path)
		if err != nil {
			http.Error(w, "captured image not found", http.StatusNotFound)
			return
		}
		data = base64.StdEncoding.EncodeToString(raw)
	} else if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		http.Error(w, "invalid image data", http.StatusBadRequest)
		return
	}

	b := &models.Biometric{
		EmployeeID: emp.ID,
		Kind:       string(models.KindFace),
		Data:       data,
	}
	if err := h.Employees.UpsertBiometric(r.Context(), b); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if req.Path != "" {
		_ = h.Blobs.Delete(req.Path)
	}

	emp.FaceBiometric = b
	writeJSON(w, http.StatusOK, emp)
}

// DeleteFaceBiometric handles DELETE /api/employees/{id}/face.
func (h *EmployeeHandler) DeleteFaceBiometric(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	if err := h.Employees.DeleteBiometric(r.Context(), emp.ID, models.KindFace); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadEmployee resolves the {id} route parameter to an employee,
// writing the error response itself when that fails.
func (h *EmployeeHandler) loadEmployee(w http.ResponseWriter, r *http.Request) (*models.Employee, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	emp, err := h.Employees.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "employee not found", http.StatusNotFound)
		} else {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return nil, false
	}
	return emp, true
}
