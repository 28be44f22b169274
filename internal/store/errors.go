package store

import "errors"

// Sentinel errors returned by repository methods. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrStateNotFound is returned when no value is stored under the
	// requested key.
	ErrStateNotFound = errors.New("state not found")

	// ErrBuildingQuery is returned when squirrel fails to render a statement.
	ErrBuildingQuery = errors.New("failed to build query")

	// ErrExecutingStatement is returned when executing a DML statement fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan state row")
)
