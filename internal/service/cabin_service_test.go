package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/willowbend/lodge-admin/internal/model"
	"github.com/willowbend/lodge-admin/internal/queue"
	"github.com/willowbend/lodge-admin/internal/repository"
)

// fakeCabins is an in-memory CabinStore that mimics the repository's
// semantics, including the keep-image-on-empty update rule.
type fakeCabins struct {
	mu        sync.Mutex
	nextID    uint64
	rows      map[uint64]model.Cabin
	inserts   int
	updates   int
	deletes   int
	insertErr error
	deleteErr error
}

func newFakeCabins() *fakeCabins {
	return &fakeCabins{rows: make(map[uint64]model.Cabin)}
}

func (f *fakeCabins) Insert(ctx context.Context, c *model.Cabin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	c.ID = f.nextID
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeCabins) Update(ctx context.Context, c *model.Cabin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	old, ok := f.rows[c.ID]
	if !ok {
		return repository.ErrCabinNotFound
	}
	if c.Image == "" {
		c.Image = old.Image
	}
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeCabins) DeleteByID(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeCabins) GetByID(ctx context.Context, id uint64) (*model.Cabin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrCabinNotFound
	}
	return &c, nil
}

func (f *fakeCabins) ListAll(ctx context.Context) ([]*model.Cabin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Cabin, 0, len(f.rows))
	for _, c := range f.rows {
		cc := c
		out = append(out, &cc)
	}
	return out, nil
}

// fakeBlobs records uploads and can be told to fail them.
type fakeBlobs struct {
	mu        sync.Mutex
	base      string
	objects   map[string][]byte
	uploads   int
	uploadErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{base: "https://blob.test/cabin-images", objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.uploadErr != nil {
		return f.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = b
	return nil
}

func (f *fakeBlobs) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobs) PublicURL(key string) string {
	if key == "" {
		return f.base
	}
	return f.base + "/" + key
}

func newUpload(name string, content []byte) NewUpload {
	return NewUpload{
		Filename:    name,
		Content:     bytes.NewReader(content),
		Size:        int64(len(content)),
		ContentType: "image/jpeg",
	}
}

func TestCreateUploadsNewPhoto(t *testing.T) {
	cabins := newFakeCabins()
	blobs := newFakeBlobs()
	svc := NewCabinService(cabins, blobs, nil)

	got, err := svc.CreateOrUpdate(context.Background(), 0,
		&model.Cabin{Name: "Cabin 1", MaxCapacity: 2, RegularPrice: 25000},
		newUpload("photo.jpg", []byte("jpegbytes")))
	if err != nil {
		t.Fatalf("CreateOrUpdate: %v", err)
	}
	if got.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if cabins.inserts != 1 || cabins.updates != 0 {
		t.Fatalf("inserts=%d updates=%d, want 1/0", cabins.inserts, cabins.updates)
	}
	if blobs.uploads != 1 {
		t.Fatalf("uploads=%d, want 1", blobs.uploads)
	}
	if len(blobs.objects) != 1 {
		t.Fatalf("stored objects=%d, want 1", len(blobs.objects))
	}
	for key := range blobs.objects {
		if !strings.Contains(key, "photo.jpg") {
			t.Errorf("key %q does not keep the original filename", key)
		}
		if want := blobs.PublicURL(key); got.Image != want {
			t.Errorf("image = %q, want %q", got.Image, want)
		}
	}
}

func TestEditWithNewPhotoUpdatesRow(t *testing.T) {
	cabins := newFakeCabins()
	cabins.rows[7] = model.Cabin{ID: 7, Name: "old", Image: "https://blob.test/cabin-images/old-key"}
	blobs := newFakeBlobs()
	svc := NewCabinService(cabins, blobs, nil)

	got, err := svc.CreateOrUpdate(context.Background(), 7,
		&model.Cabin{Name: "new name", MaxCapacity: 4, RegularPrice: 30000},
		newUpload("fresh.jpg", []byte("x")))
	if err != nil {
		t.Fatalf("CreateOrUpdate: %v", err)
	}
	if cabins.inserts != 0 || cabins.updates != 1 {
		t.Fatalf("inserts=%d updates=%d, want 0/1", cabins.inserts, cabins.updates)
	}
	if got.ID != 7 {
		t.Fatalf("id = %d, want 7", got.ID)
	}
	if strings.Contains(got.Image, "old-key") {
		t.Errorf("image %q still references the old photo", got.Image)
	}
}

func TestEditWithResolvedAssetSkipsUpload(t *testing.T) {
	cabins := newFakeCabins()
	cabins.rows[7] = model.Cabin{ID: 7, Name: "old"}
	blobs := newFakeBlobs()
	svc := NewCabinService(cabins, blobs, nil)

	url := blobs.PublicURL("old-key")
	got, err := svc.CreateOrUpdate(context.Background(), 7,
		&model.Cabin{Name: "renamed", MaxCapacity: 2, RegularPrice: 20000},
		ResolvedAsset{URL: url})
	if err != nil {
		t.Fatalf("CreateOrUpdate: %v", err)
	}
	if blobs.uploads != 0 {
		t.Fatalf("uploads=%d, want 0", blobs.uploads)
	}
	if got.Image != url {
		t.Errorf("image = %q, want %q verbatim", got.Image, url)
	}
	if cabins.updates != 1 {
		t.Errorf("updates=%d, want 1", cabins.updates)
	}
}

func TestEditWithNoAssetKeepsImage(t *testing.T) {
	cabins := newFakeCabins()
	cabins.rows[3] = model.Cabin{ID: 3, Name: "old", Image: "https://blob.test/cabin-images/keep-me"}
	blobs := newFakeBlobs()
	svc := NewCabinService(cabins, blobs, nil)

	got, err := svc.CreateOrUpdate(context.Background(), 3,
		&model.Cabin{Name: "renamed", MaxCapacity: 2, RegularPrice: 20000},
		NoAsset{})
	if err != nil {
		t.Fatalf("CreateOrUpdate: %v", err)
	}
	if blobs.uploads != 0 {
		t.Fatalf("uploads=%d, want 0", blobs.uploads)
	}
	if !strings.HasSuffix(got.Image, "keep-me") {
		t.Errorf("image = %q, want existing photo kept", got.Image)
	}
}

func TestUploadFailureCompensates(t *testing.T) {
	cabins := newFakeCabins()
	blobs := newFakeBlobs()
	blobs.uploadErr = errors.New("bucket down")
	svc := NewCabinService(cabins, blobs, nil)

	_, err := svc.CreateOrUpdate(context.Background(), 0,
		&model.Cabin{Name: "Cabin 1", MaxCapacity: 2, RegularPrice: 25000},
		newUpload("photo.jpg", []byte("x")))

	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("error = %v, want *UploadError", err)
	}
	if !uerr.Compensated {
		t.Error("expected Compensated=true")
	}
	if !errors.Is(err, blobs.uploadErr) {
		t.Error("UploadError should wrap the storage error")
	}
	if len(cabins.rows) != 0 {
		t.Fatalf("rows=%d after compensation, want 0", len(cabins.rows))
	}
	if cabins.deletes != 1 {
		t.Fatalf("deletes=%d, want 1", cabins.deletes)
	}
}

func TestCompensationFailurePublishesCleanup(t *testing.T) {
	cabins := newFakeCabins()
	cabins.deleteErr = errors.New("db down")
	blobs := newFakeBlobs()
	blobs.uploadErr = errors.New("bucket down")

	var published []queue.CabinCleanupEvent
	svc := NewCabinService(cabins, blobs, func(ctx context.Context, ev queue.CabinCleanupEvent) error {
		published = append(published, ev)
		return nil
	})

	_, err := svc.CreateOrUpdate(context.Background(), 0,
		&model.Cabin{Name: "Cabin 1", MaxCapacity: 2, RegularPrice: 25000},
		newUpload("photo.jpg", []byte("x")))

	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("error = %v, want *UploadError", err)
	}
	if uerr.Compensated {
		t.Error("expected Compensated=false when the delete fails")
	}
	if len(published) != 1 {
		t.Fatalf("published %d cleanup events, want 1", len(published))
	}
	if published[0].CabinID != 1 || published[0].ImageKey != uerr.Key {
		t.Errorf("cleanup event = %+v, want cabin 1 / key %q", published[0], uerr.Key)
	}
}

func TestRecordWriteFailureSkipsUpload(t *testing.T) {
	cabins := newFakeCabins()
	cabins.insertErr = errors.New("constraint violation")
	blobs := newFakeBlobs()
	svc := NewCabinService(cabins, blobs, nil)

	_, err := svc.CreateOrUpdate(context.Background(), 0,
		&model.Cabin{Name: "Cabin 1"}, newUpload("photo.jpg", []byte("x")))
	if !errors.Is(err, cabins.insertErr) {
		t.Fatalf("error = %v, want the insert error", err)
	}
	if blobs.uploads != 0 {
		t.Fatalf("uploads=%d, want 0 when the record write fails", blobs.uploads)
	}
	if cabins.deletes != 0 {
		t.Fatalf("deletes=%d, want 0 (nothing to compensate)", cabins.deletes)
	}
}

func TestUpdateMissingCabin(t *testing.T) {
	cabins := newFakeCabins()
	blobs := newFakeBlobs()
	svc := NewCabinService(cabins, blobs, nil)

	_, err := svc.CreateOrUpdate(context.Background(), 42,
		&model.Cabin{Name: "ghost"}, NoAsset{})
	if !errors.Is(err, repository.ErrCabinNotFound) {
		t.Fatalf("error = %v, want ErrCabinNotFound", err)
	}
}
