package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/streaks/internal/logger"
)

// ValidationError indicates the caller supplied a bad habit reference or a
// malformed date. It is always raised before any storage I/O happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// StorageIOError indicates an underlying read or write against the database
// failed. The operation may be retried by the caller; the store itself never
// retries.
type StorageIOError struct {
	Op  string
	Err error
}

func (e *StorageIOError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageIOError) Unwrap() error {
	return e.Err
}

// StorageIO wraps err as a StorageIOError for the named operation.
// Returns nil when err is nil so call sites can wrap unconditionally.
func StorageIO(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageIOError{Op: op, Err: err}
}

// IsStorageIO reports whether err is (or wraps) a StorageIOError.
func IsStorageIO(err error) bool {
	var se *StorageIOError
	return stderrors.As(err, &se)
}

// ConsistencyError indicates derived state (the heatmap cache) could not be
// reconciled with the entry store. The correct response is always to rebuild
// the cache row from the entries, never to trust the stale cache.
type ConsistencyError struct {
	Msg string
}

func (e *ConsistencyError) Error() string {
	return e.Msg
}

// Consistencyf builds a ConsistencyError from a format string.
func Consistencyf(format string, args ...interface{}) error {
	return &ConsistencyError{Msg: fmt.Sprintf(format, args...)}
}

// IsConsistency reports whether err is (or wraps) a ConsistencyError.
func IsConsistency(err error) bool {
	var ce *ConsistencyError
	return stderrors.As(err, &ce)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
