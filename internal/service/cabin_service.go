// Package service holds the workflows that span more than one backing
// store.  The main one is the cabin write path, which couples a row in
// the cabins table with a photo in object storage and must keep the
// two consistent.
package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/willowbend/lodge-admin/internal/model"
	"github.com/willowbend/lodge-admin/internal/queue"
	"github.com/willowbend/lodge-admin/internal/storage"
)

// AssetInput describes what the caller supplied for a cabin's photo.
// Exactly one of the three variants applies per request:
//
//	NoAsset       – no photo field at all; an existing photo is kept.
//	ResolvedAsset – a URL of a photo that is already in storage
//	                (edit without replacing the image).
//	NewUpload     – a fresh binary that still has to be stored.
type AssetInput interface {
	isAssetInput()
}

// NoAsset means the request carried no photo.
type NoAsset struct{}

// ResolvedAsset is a reference to a photo already in object storage.
type ResolvedAsset struct {
	URL string
}

// NewUpload is a photo binary that has not been stored yet.
type NewUpload struct {
	Filename    string
	Content     io.Reader
	Size        int64
	ContentType string
}

func (NoAsset) isAssetInput()       {}
func (ResolvedAsset) isAssetInput() {}
func (NewUpload) isAssetInput()     {}

// CabinStore is the record persistence the workflow needs.  It is
// satisfied by *repository.CabinRepo and by in-memory fakes in tests.
type CabinStore interface {
	Insert(ctx context.Context, c *model.Cabin) error
	Update(ctx context.Context, c *model.Cabin) error
	DeleteByID(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (*model.Cabin, error)
	ListAll(ctx context.Context) ([]*model.Cabin, error)
}

// CleanupFunc publishes a cleanup event for a dangling cabin row.
// queue.PublishCabinCleanup is the production implementation.
type CleanupFunc func(ctx context.Context, ev queue.CabinCleanupEvent) error

// CabinService coordinates cabin writes across the record store and
// the blob store.
type CabinService struct {
	cabins  CabinStore
	blobs   storage.Store
	cleanup CleanupFunc // optional; nil disables cleanup events
}

// NewCabinService wires the service to its stores.  Pass nil for
// cleanup to disable publishing of cleanup events (tests, setups
// without a broker).
func NewCabinService(cabins CabinStore, blobs storage.Store, cleanup CleanupFunc) *CabinService {
	if cabins == nil || blobs == nil {
		panic("nil store passed to NewCabinService")
	}
	return &CabinService{cabins: cabins, blobs: blobs, cleanup: cleanup}
}

// CreateOrUpdate persists a cabin and, when a new photo is supplied,
// uploads it.  id == 0 creates a new cabin; otherwise the cabin with
// that id is updated.
//
// The row is written first, already referencing the photo's future
// URL, so no second row update is needed after the upload.  The cost
// of that ordering is a compensating delete: if the upload fails the
// just-written row would point at a photo that does not exist, so the
// row is deleted again and the upload failure is returned as an
// *UploadError.  When the compensating delete itself fails the error
// still reports the upload failure, with Compensated set to false and
// a cleanup event published for the background consumer to retry.
func (s *CabinService) CreateOrUpdate(ctx context.Context, id uint64, cabin *model.Cabin, asset AssetInput) (*model.Cabin, error) {
	var key string
	switch a := asset.(type) {
	case ResolvedAsset:
		// Already stored; reuse the URL verbatim, never re-upload.
		cabin.Image = a.URL
	case NewUpload:
		// The key is computed up front so the row can reference the
		// photo's final URL before the photo exists.
		key = storage.ObjectKey(a.Filename)
		cabin.Image = s.blobs.PublicURL(key)
	case NoAsset, nil:
		// Empty means "leave the image column alone" on update and
		// "no photo" on insert (see CabinRepo.Update).
		cabin.Image = ""
	}

	// 1. Write the record. Nothing to undo if this fails.
	var err error
	if id == 0 {
		err = s.cabins.Insert(ctx, cabin)
	} else {
		cabin.ID = id
		err = s.cabins.Update(ctx, cabin)
	}
	if err != nil {
		return nil, err
	}

	up, ok := asset.(NewUpload)
	if !ok {
		return cabin, nil
	}

	// 2. Upload the photo. The row already carries its URL.
	if uerr := s.blobs.Upload(ctx, key, up.Content, up.Size, up.ContentType); uerr != nil {
		return nil, s.compensate(ctx, cabin.ID, key, uerr)
	}
	return cabin, nil
}

// compensate deletes the row written for a photo that failed to
// upload.  The returned error always wraps the upload failure; a
// failed delete is reported on the error and handed to the cleanup
// queue rather than masking the original cause.
func (s *CabinService) compensate(ctx context.Context, cabinID uint64, key string, uploadErr error) error {
	out := &UploadError{Key: key, Err: uploadErr, Compensated: true}
	if derr := s.cabins.DeleteByID(ctx, cabinID); derr != nil {
		out.Compensated = false
		log.Printf("cabin-service: compensating delete of cabin %d failed: %v", cabinID, derr)
		if s.cleanup != nil {
			ev := queue.CabinCleanupEvent{
				CabinID:  cabinID,
				ImageKey: key,
				Reason:   fmt.Sprintf("photo upload failed (%v) and compensating delete failed (%v)", uploadErr, derr),
				FailedAt: time.Now().UTC().Format(time.RFC3339),
			}
			if perr := s.cleanup(ctx, ev); perr != nil {
				log.Printf("cabin-service: publish cleanup event for cabin %d failed: %v", cabinID, perr)
			}
		}
	}
	return out
}

// List returns all cabins.
func (s *CabinService) List(ctx context.Context) ([]*model.Cabin, error) {
	return s.cabins.ListAll(ctx)
}

// Get returns one cabin by id.
func (s *CabinService) Get(ctx context.Context, id uint64) (*model.Cabin, error) {
	return s.cabins.GetByID(ctx, id)
}

// Delete removes a cabin row.  The photo, if any, is left in storage;
// this matches the dashboard's delete behavior.
func (s *CabinService) Delete(ctx context.Context, id uint64) error {
	return s.cabins.DeleteByID(ctx, id)
}
