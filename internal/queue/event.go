// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// CabinCleanupEvent is published when the compensating delete after a
// failed photo upload itself fails, leaving a cabin row that points at
// a photo which was never stored.  Consumers retry the delete so the
// dangling row does not survive indefinitely.
type CabinCleanupEvent struct {
	CabinID  uint64 `json:"cabin_id"`
	ImageKey string `json:"image_key"`
	Reason   string `json:"reason"`
	FailedAt string `json:"failed_at"`
}
