package capture

import "errors"

var (
	// ErrNotFound reports a capture reference that matches nothing.
	ErrNotFound = errors.New("capture not found")
	// ErrAmbiguous reports a reference that matches more than one capture.
	ErrAmbiguous = errors.New("capture reference is ambiguous")
	// ErrInvalidScript wraps every capture script validation failure.
	ErrInvalidScript = errors.New("invalid capture script")
	// ErrLocked reports that another import holds the store lock.
	ErrLocked = errors.New("capture store is locked by another import")
	// ErrSchemaMismatch indicates the database was written by a newer schema.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)
