package service

import "fmt"

// UploadError reports a failed photo upload, after which the row that
// referenced the photo was deleted again.  Compensated tells whether
// that delete succeeded; when false, a cleanup event has been handed
// to the broker and a dangling row may exist until the consumer
// catches up.
type UploadError struct {
	Key         string
	Err         error
	Compensated bool
}

func (e *UploadError) Error() string {
	if e.Compensated {
		return fmt.Sprintf("cabin photo upload failed (key %q): %v", e.Key, e.Err)
	}
	return fmt.Sprintf("cabin photo upload failed (key %q, cleanup pending): %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
