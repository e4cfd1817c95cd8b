// Package models defines the core data structures for checkpoints,
// employees and their biometric records.
package models

import "time"

// Checkpoint represents a registered biometric access-control terminal.
// The device integration layer only needs Host and the credentials; the
// rest is administrative metadata.
type Checkpoint struct {
	// ID is the unique identifier for the checkpoint.
	ID int64 `json:"id"`
	// Name is the human-readable label shown in the admin UI.
	Name string `json:"name"`
	// Host is the network address (IP or hostname) of the device.
	Host string `json:"host"`
	// MAC is the device MAC address, if known.
	MAC string `json:"mac,omitempty"`
	// Username is the digest-auth username for the device.
	Username string `json:"username"`
	// Password is the digest-auth password for the device.
	Password string `json:"-"`
}

// Employee represents a person synchronized to checkpoints.
type Employee struct {
	// ID is the unique identifier for the employee row.
	ID int64 `json:"id"`
	// EmployeeNo is the external employee number, used as the
	// device-side primary key.
	EmployeeNo string `json:"employee_no"`
	// Name is the display name pushed to devices.
	Name string `json:"name"`
	// ResignDate is the employment end date, if the employee resigned.
	ResignDate *time.Time `json:"resign_date,omitempty"`
	// FaceBiometric is the employee's face record, if registered.
	FaceBiometric *Biometric `json:"face_biometric,omitempty"`
	// Deleted marks the row as soft-deleted.
	Deleted bool `json:"deleted,omitempty"`
}

// Biometric holds one biometric record belonging to an employee.
type Biometric struct {
	// ID is the unique identifier for the record.
	ID int64 `json:"id"`
	// EmployeeID references the owning employee row.
	EmployeeID int64 `json:"employee_id"`
	// Kind indicates the biometric type ("face", "fingerprint", "card").
	Kind string `json:"kind"`
	// Data is the opaque payload: a base64-encoded image for faces,
	// template data for fingerprints, a card number for cards.
	Data string `json:"data"`
}

// BiometricKind defines the set of valid biometric type identifiers.
type BiometricKind string

const (
	// KindFace represents a face image record.
	KindFace BiometricKind = "face"
	// KindFingerprint represents a fingerprint template record.
	KindFingerprint BiometricKind = "fingerprint"
	// KindCard represents an access card record.
	KindCard BiometricKind = "card"
)
