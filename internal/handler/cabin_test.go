package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/willowbend/lodge-admin/internal/model"
	"github.com/willowbend/lodge-admin/internal/repository"
	"github.com/willowbend/lodge-admin/internal/service"
	"github.com/willowbend/lodge-admin/internal/storage"
)

// memCabins is a minimal in-memory CabinStore for handler tests.
type memCabins struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Cabin
}

func newMemCabins() *memCabins { return &memCabins{rows: make(map[uint64]model.Cabin)} }

func (m *memCabins) Insert(ctx context.Context, c *model.Cabin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	m.rows[c.ID] = *c
	return nil
}

func (m *memCabins) Update(ctx context.Context, c *model.Cabin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[c.ID]
	if !ok {
		return repository.ErrCabinNotFound
	}
	if c.Image == "" {
		c.Image = old.Image
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memCabins) DeleteByID(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memCabins) GetByID(ctx context.Context, id uint64) (*model.Cabin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrCabinNotFound
	}
	return &c, nil
}

func (m *memCabins) ListAll(ctx context.Context) ([]*model.Cabin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Cabin, 0, len(m.rows))
	for _, c := range m.rows {
		cc := c
		out = append(out, &cc)
	}
	return out, nil
}

// cabinForm builds a multipart request body for the cabin endpoints.
func cabinForm(t *testing.T, fields map[string]string, imageFile string, imageBytes []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if imageFile != "" {
		fw, err := w.CreateFormFile("image", imageFile)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(imageBytes); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func newTestHandler() (*CabinHandler, *memCabins, *storage.Memory) {
	cabins := newMemCabins()
	blobs := storage.NewMemory("mem://cabin-images")
	svc := service.NewCabinService(cabins, blobs, nil)
	return NewCabinHandler(svc), cabins, blobs
}

func TestCreateCabinWithPhoto(t *testing.T) {
	h, _, blobs := newTestHandler()
	e := echo.New()

	body, ctype := cabinForm(t, map[string]string{
		"name":          "Birch",
		"max_capacity":  "4",
		"regular_price": "35000",
		"discount":      "5000",
		"description":   "Forest view",
	}, "birch.jpg", []byte("jpeg"))

	req := httptest.NewRequest(http.MethodPost, "/v1/cabins", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateCabin(c); err != nil {
		t.Fatalf("CreateCabin: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var got model.Cabin
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID == 0 || got.Name != "Birch" {
		t.Errorf("cabin = %+v", got)
	}
	if !strings.HasPrefix(got.Image, "mem://cabin-images/") || !strings.Contains(got.Image, "birch.jpg") {
		t.Errorf("image = %q", got.Image)
	}
	if blobs.Len() != 1 {
		t.Errorf("stored objects = %d, want 1", blobs.Len())
	}
}

func TestUpdateCabinKeepsExistingPhoto(t *testing.T) {
	h, cabins, blobs := newTestHandler()
	cabins.rows[7] = model.Cabin{ID: 7, Name: "old", Image: "mem://cabin-images/existing.jpg"}
	cabins.nextID = 7
	e := echo.New()

	body, ctype := cabinForm(t, map[string]string{
		"name":          "Renamed",
		"max_capacity":  "2",
		"regular_price": "20000",
		"image":         "mem://cabin-images/existing.jpg",
	}, "", nil)

	req := httptest.NewRequest(http.MethodPut, "/v1/cabins/7", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := h.UpdateCabin(c); err != nil {
		t.Fatalf("UpdateCabin: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var got model.Cabin
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Image != "mem://cabin-images/existing.jpg" {
		t.Errorf("image = %q, want the existing URL verbatim", got.Image)
	}
	if blobs.Len() != 0 {
		t.Errorf("stored objects = %d, want 0 (no upload expected)", blobs.Len())
	}
}

func TestCreateCabinValidation(t *testing.T) {
	h, _, _ := newTestHandler()
	e := echo.New()

	cases := []map[string]string{
		{"max_capacity": "2", "regular_price": "100"},                          // missing name
		{"name": "x", "max_capacity": "0", "regular_price": "100"},             // zero capacity
		{"name": "x", "max_capacity": "2", "regular_price": "100", "discount": "200"}, // discount > price
	}
	for i, fields := range cases {
		body, ctype := cabinForm(t, fields, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/v1/cabins", body)
		req.Header.Set(echo.HeaderContentType, ctype)
		rec := httptest.NewRecorder()
		if err := h.CreateCabin(e.NewContext(req, rec)); err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, rec.Code)
		}
	}
}

func TestUpdateMissingCabinIs404(t *testing.T) {
	h, _, _ := newTestHandler()
	e := echo.New()

	body, ctype := cabinForm(t, map[string]string{
		"name": "ghost", "max_capacity": "2", "regular_price": "100",
	}, "", nil)
	req := httptest.NewRequest(http.MethodPut, "/v1/cabins/99", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := h.UpdateCabin(c); err != nil {
		t.Fatalf("UpdateCabin: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteCabin(t *testing.T) {
	h, cabins, _ := newTestHandler()
	cabins.rows[3] = model.Cabin{ID: 3, Name: "bye"}
	e := echo.New()

	req := httptest.NewRequest(http.MethodDelete, "/v1/cabins/3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := h.DeleteCabin(c); err != nil {
		t.Fatalf("DeleteCabin: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(cabins.rows) != 0 {
		t.Fatal("row still present after delete")
	}
}
