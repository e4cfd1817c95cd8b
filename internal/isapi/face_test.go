package isapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

const faceJPEG = "/9j/4AAQSkZJRg==" // tiny base64 JPEG stub

func TestFaceStore_StatusCodeOne(t *testing.T) {
	var record faceRecord

	client, _, cp := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "FaceDataRecord") {
			t.Errorf("path = %q; want FaceDataRecord", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		writeBody(t, w, map[string]any{"statusCode": 1})
	}))

	res, err := client.FaceStore(context.Background(), cp, "1001", faceJPEG, "")
	if err != nil {
		t.Fatalf("FaceStore returned error: %v", err)
	}
	if !res.Success {
		t.Fatal("FaceStore result not successful")
	}

	if record.FPID != "1001" || record.FaceLibType != "blackFD" || record.FDID != "1" {
		t.Errorf("record = %+v; want FPID 1001 in blackFD library 1", record)
	}
	if record.BornTime != defaultBornTime {
		t.Errorf("bornTime = %q; want default %q", record.BornTime, defaultBornTime)
	}
	if !strings.HasPrefix(record.FaceURL, "http://storage.local/biometrics/") {
		t.Errorf("faceURL = %q; want staged blob URL", record.FaceURL)
	}
}

func TestFaceStore_StagedBlobAlwaysDeleted(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"accepted", 1},
		{"rejected", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, store, cp := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeBody(t, w, map[string]any{"statusCode": tt.statusCode})
			}))

			if _, err := client.FaceStore(context.Background(), cp, "1001", faceJPEG, ""); err != nil {
				t.Fatalf("FaceStore returned error: %v", err)
			}
			if len(store.blobs) != 0 {
				t.Error("staged blob must be deleted after the call")
			}
			if len(store.deleted) != 1 {
				t.Errorf("deleted %d blobs; want 1", len(store.deleted))
			}
		})
	}
}

func TestFaceStore_StatusCodeNotOneIsFailure(t *testing.T) {
	client, _, cp := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(t, w, map[string]any{"statusCode": 5})
	}))

	res, err := client.FaceStore(context.Background(), cp, "1001", faceJPEG, "")
	if err != nil {
		t.Fatalf("FaceStore returned error: %v", err)
	}
	if res.Success {
		t.Error("expected failure on statusCode 5")
	}
}

func TestFaceStore_SearchFallbackFindsRegisteredFace(t *testing.T) {
	client, _, cp := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "FaceDataRecord") {
			// Abort the connection so the store attempt faults at the
			// transport level, forcing the library search fallback.
			panic(http.ErrAbortHandler)
		}
		if !strings.Contains(r.URL.Path, "FDSearch") {
			t.Errorf("path = %q; want FDSearch", r.URL.Path)
		}
		writeBody(t, w, map[string]any{"MatchList": []map[string]any{{"FPID": "1001"}}})
	}))

	res, err := client.FaceStore(context.Background(), cp, "1001", faceJPEG, "")
	if err != nil {
		t.Fatalf("FaceStore returned error: %v", err)
	}
	if !res.Success {
		t.Error("expected success when the face library already holds the record")
	}
}

func TestFaceStore_SearchFallbackEmptyIsFailure(t *testing.T) {
	client, _, cp := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "FaceDataRecord") {
			panic(http.ErrAbortHandler)
		}
		writeBody(t, w, map[string]any{"MatchList": []map[string]any{}})
	}))

	res, err := client.FaceStore(context.Background(), cp, "1001", faceJPEG, "")
	if err != nil {
		t.Fatalf("FaceStore returned error: %v", err)
	}
	if res.Success {
		t.Error("expected failure when the library holds no record")
	}
}

func TestFaceStore_InvalidBase64IsError(t *testing.T) {
	client, _, cp := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an undecodable payload")
	}))

	if _, err := client.FaceStore(context.Background(), cp, "1001", "not-base64!!!", ""); err == nil {
		t.Error("expected error for undecodable face payload")
	}
}

func TestFaceDelete_HTTPOkOnly(t *testing.T) {
	var body struct {
		FPID []fpidValue `json:"FPID"`
	}

	client, _, cp := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "format=json&FDID=1&faceLibType=blackFD" {
			t.Errorf("query = %q; want FDID and faceLibType", r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	res, err := client.FaceDelete(context.Background(), cp, "1001")
	if err != nil {
		t.Fatalf("FaceDelete returned error: %v", err)
	}
	if !res.Success {
		t.Fatal("FaceDelete result not successful")
	}
	if len(body.FPID) != 1 || body.FPID[0].Value != "1001" {
		t.Errorf("FPID = %+v; want single value 1001", body.FPID)
	}
}

// Guard against the staged payload diverging from what was decoded.
func TestFaceStore_StagesDecodedImage(t *testing.T) {
	want, _ := base64.StdEncoding.DecodeString(faceJPEG)
	var staged []byte

	var store *memStore
	client, s, cp := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, data := range store.blobs {
			staged = data
		}
		writeBody(t, w, map[string]any{"statusCode": 1})
	}))
	store = s

	if _, err := client.FaceStore(context.Background(), cp, "1001", faceJPEG, ""); err != nil {
		t.Fatalf("FaceStore returned error: %v", err)
	}
	if string(staged) != string(want) {
		t.Errorf("staged blob = %v; want decoded image", staged)
	}
}
