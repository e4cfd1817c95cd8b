package http_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"
)

func TestSaveFaceBiometric_DirectUpload(t *testing.T) {
	env := newTestEnv(t)
	payload := base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0x01})

	w := env.do(t, http.MethodPut, "/api/employees/7/face", map[string]any{"data": payload})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200: %s", w.Code, w.Body.String())
	}

	if len(env.employees.upserted) != 1 {
		t.Fatalf("upserted %d biometrics; want 1", len(env.employees.upserted))
	}
	b := env.employees.upserted[0]
	if b.EmployeeID != 7 || b.Kind != "face" || b.Data != payload {
		t.Errorf("biometric = %+v", b)
	}
}

func TestSaveFaceBiometric_RejectsBadBase64(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/employees/7/face", map[string]any{"data": "not base64!!!"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", w.Code)
	}
	if len(env.employees.upserted) != 0 {
		t.Error("nothing must be stored for an undecodable payload")
	}
}

func TestSaveFaceBiometric_FromCapturePath(t *testing.T) {
	env := newTestEnv(t)
	image := []byte{0xFF, 0xD8, 0x02}
	env.blobs.blobs["biometrics/captured.jpeg"] = image

	w := env.do(t, http.MethodPut, "/api/employees/7/face", map[string]any{"path": "biometrics/captured.jpeg"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200: %s", w.Code, w.Body.String())
	}

	if len(env.employees.upserted) != 1 {
		t.Fatalf("upserted %d biometrics; want 1", len(env.employees.upserted))
	}
	if want := base64.StdEncoding.EncodeToString(image); env.employees.upserted[0].Data != want {
		t.Errorf("stored data = %q; want base64 of the captured image", env.employees.upserted[0].Data)
	}

	// The staged capture is consumed once registered.
	if len(env.blobs.deleted) != 1 || env.blobs.deleted[0] != "biometrics/captured.jpeg" {
		t.Errorf("deleted blobs = %v; want the consumed capture", env.blobs.deleted)
	}
}

func TestSaveFaceBiometric_MissingCapture(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/employees/7/face", map[string]any{"path": "biometrics/gone.jpeg"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", w.Code)
	}
}

func TestSaveFaceBiometric_EmptyBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/employees/7/face", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", w.Code)
	}
}

func TestCreateEmployee_ValidatesResignDate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/employees", map[string]any{
		"employee_no": "1003", "name": "Citra", "resign_date": "2026-12-31",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201: %s", w.Code, w.Body.String())
	}

	var emp struct {
		ResignDate string `json:"resign_date"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &emp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if emp.ResignDate == "" {
		t.Error("resign_date must round-trip")
	}

	w = env.do(t, http.MethodPost, "/api/employees", map[string]any{
		"employee_no": "1004", "name": "Dewi", "resign_date": "31/12/2026",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400 for a malformed date", w.Code)
	}
}

func TestEventSink_AcknowledgesPayload(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/isup/event", map[string]any{
		"eventType": "AccessControllerEvent",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}

	var ack struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !ack.Success || ack.Message != "Event received" {
		t.Errorf("ack = %+v", ack)
	}
}
