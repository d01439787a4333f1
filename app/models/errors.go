package models

import (
	"errors"
	"fmt"
)

// Default messages shown when the backend gives no explanation of its own.
const (
	MsgFetchFailed  = "Gagal mengambil data"
	MsgSaveFailed   = "Gagal menyimpan data"
	MsgDeleteFailed = "Gagal menghapus data"
	MsgUnknown      = "Terjadi kesalahan"
	MsgUnreachable  = "Tidak dapat terhubung ke server"
)

// ValidationError is raised before any network call when a required field is
// missing or an upload is unusable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetworkError wraps a transport failure: the request never produced a
// response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a response the backend delivered but marked as failed.
type APIError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s failed with status %d", e.Op, e.Status)
	}
	return MsgUnknown
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Message reduces any error to the single string a view displays.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var aerr *APIError
	if errors.As(err, &aerr) {
		return aerr.Error()
	}
	var nerr *NetworkError
	if errors.As(err, &nerr) {
		// transport detail names the backend; it is logged, not shown
		return MsgUnreachable
	}
	return MsgUnknown
}
