package models

import (
	"errors"
	"fmt"
)

var (
	ErrConflictData      = errors.New("data conflicts with existing data")
	ErrDataNotFound      = errors.New("data not found")
	ErrInvalidPlan       = errors.New("unknown plan")
	ErrNoDeliveryMethod  = errors.New("at least one delivery method is required")
	ErrMissingOrderID    = errors.New("missing order number")
	ErrTerminalStatus    = errors.New("payment status is already terminal")
	ErrInternalError     = errors.New("internal error")
	ErrAssetStoreFailure = errors.New("asset store failure")
)

// UploadError reports which asset slot failed so the customer can retry
// the submission. It wraps the underlying storage error.
type UploadError struct {
	Index int
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of image %d failed: %v", e.Index, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// WrongFileCountError is returned when the submitted file count does not
// match the selected plan.
type WrongFileCountError struct {
	Want int
	Got  int
}

// NewWrongFileCountError creates new WrongFileCountError
func NewWrongFileCountError(want, got int) *WrongFileCountError {
	return &WrongFileCountError{Want: want, Got: got}
}

func (e *WrongFileCountError) Error() string {
	return fmt.Sprintf("plan requires %d images, got %d", e.Want, e.Got)
}
