// Package common defines sentinel errors shared by the storage layers.
// Callers should use errors.Is to match these values; the originating
// driver error stays reachable through the wrap chain.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Store-level errors.
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrSchemaConflict      = errors.New("schema conflict")
	ErrConstraintViolation = errors.New("constraint violation")
)
