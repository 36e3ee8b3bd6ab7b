// Package storage provides object storage for cabin photos.  The Store
// interface abstracts the backing provider so the service layer can be
// wired to S3 in production and to an in-memory store in tests.
package storage

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Store is the interface for uploading and removing binary assets.
// Implementations must be safe for concurrent use; keys are expected
// to be unique by construction (see ObjectKey), not enforced here.
type Store interface {
	// Upload streams content to the store under the given key.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes the object identified by key.  Deleting a key
	// that does not exist is not an error.
	Delete(ctx context.Context, key string) error
	// PublicURL returns the externally reachable URL for a key.
	// PublicURL("") yields the store's base address, which is also
	// the prefix of every URL the store hands out.
	PublicURL(key string) string
}

// ObjectKey derives a flat storage key for an uploaded file.  The key
// keeps the original filename for traceability and prepends a random
// UUID so repeated uploads of the same filename never collide.  Path
// separators are stripped since keys address a flat namespace.
func ObjectKey(filename string) string {
	name := strings.NewReplacer("/", "", "\\", "").Replace(filename)
	return uuid.NewString() + "-" + name
}
