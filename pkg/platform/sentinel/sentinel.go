package sentinel

import "errors"

// Sentinel errors for record-store facts. Stores return these (optionally
// wrapped) so the service can translate them into the failure taxonomy
// without knowing which store implementation produced them.
//
// These represent factual states about records, not validation failures:
// - ErrNotFound: no record exists for the given identifier
// - ErrConflict: a uniqueness or integrity constraint was violated
//
// For input validation failures, use pkg/problem directly.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
