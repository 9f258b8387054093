package post

import (
	"errors"
	"fmt"
)

var (
	ErrUploadFailed  = errors.New("image upload failed")
	ErrRecordInvalid = errors.New("post record invalid")
	ErrSubmitFailed  = errors.New("post submission failed")
)

// UploadError is a failed blob upload for one attachment. Composition stops at the first one.
type UploadError struct {
	// zero-based position of the attachment in the request
	Index  int
	Source string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading image %d (%s): %v", e.Index+1, e.Source, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func (e *UploadError) Is(target error) bool {
	return target == ErrUploadFailed
}

// RecordInvalidError means the record was rejected locally, before it was sent.
type RecordInvalidError struct {
	Err error
}

func (e *RecordInvalidError) Error() string {
	return fmt.Sprintf("post record validation failed: %v", e.Err)
}

func (e *RecordInvalidError) Unwrap() error {
	return e.Err
}

func (e *RecordInvalidError) Is(target error) bool {
	return target == ErrRecordInvalid
}

// SubmitError wraps a failure from the session when creating the record. The message is the underlying error, unchanged.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

func (e *SubmitError) Is(target error) bool {
	return target == ErrSubmitFailed
}
