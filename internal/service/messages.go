package service

import "fmt"

// SyncFailureMessage maps a sync error kind to the human-readable message
// shown for the named checkpoint. Unmapped kinds get the generic message.
func SyncFailureMessage(kind, checkpointName string) string {
	switch kind {
	case ErrUserDelete:
		return fmt.Sprintf("Assign to checkpoint %s failed. checkpoint offline.", checkpointName)
	case ErrUserCreate:
		return fmt.Sprintf("Assign to checkpoint %s failed. failed to create user checkpoint.", checkpointName)
	case ErrFace:
		return fmt.Sprintf("Assign to checkpoint %s failed. failed to create user face checkpoint.", checkpointName)
	case ErrFingerprint:
		return fmt.Sprintf("Assign to checkpoint %s failed. failed to create user fingerprint checkpoint.", checkpointName)
	case ErrCard:
		return fmt.Sprintf("Assign to checkpoint %s failed. failed to create user card checkpoint.", checkpointName)
	default:
		return fmt.Sprintf("Assign to checkpoint %s failed.", checkpointName)
	}
}
