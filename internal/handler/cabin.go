package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/willowbend/lodge-admin/internal/model"
	"github.com/willowbend/lodge-admin/internal/repository"
	"github.com/willowbend/lodge-admin/internal/service"
)

// CabinHandler exposes the cabin CRUD endpoints.  Create and update go
// through the CabinService so the row and the photo stay consistent;
// list, get and delete are single-store passthroughs.
type CabinHandler struct {
	Cabins *service.CabinService
}

func NewCabinHandler(s *service.CabinService) *CabinHandler {
	if s == nil {
		panic("nil service passed to NewCabinHandler")
	}
	return &CabinHandler{Cabins: s}
}

// ListCabins handles GET /v1/cabins.
func (h *CabinHandler) ListCabins(c echo.Context) error {
	items, err := h.Cabins.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCabin handles GET /v1/cabins/:id.
func (h *CabinHandler) GetCabin(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cab, err := h.Cabins.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCabinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cab)
}

// CreateCabin handles POST /v1/cabins.  The body is a multipart form
// with the business fields plus either an `image` file (a new photo to
// upload) or an `image` string field (URL of a photo already stored).
func (h *CabinHandler) CreateCabin(c echo.Context) error {
	return h.save(c, 0)
}

// UpdateCabin handles PUT /v1/cabins/:id with the same form as create.
func (h *CabinHandler) UpdateCabin(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	return h.save(c, id)
}

// DeleteCabin handles DELETE /v1/cabins/:id.  Only the row is removed;
// the photo stays in storage.
func (h *CabinHandler) DeleteCabin(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Cabins.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete cabin"})
	}
	return c.NoContent(http.StatusNoContent)
}

// save parses the multipart form and runs the create/update workflow.
// id == 0 creates a new cabin.
func (h *CabinHandler) save(c echo.Context, id uint64) error {
	cab, errMsg := bindCabinForm(c)
	if errMsg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": errMsg})
	}

	asset := service.AssetInput(service.NoAsset{})
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read image"})
		}
		defer f.Close()
		asset = service.NewUpload{
			Filename:    fh.Filename,
			Content:     f,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		}
	} else if url := strings.TrimSpace(c.FormValue("image")); url != "" {
		asset = service.ResolvedAsset{URL: url}
	}

	saved, err := h.Cabins.CreateOrUpdate(c.Request().Context(), id, cab, asset)
	if err != nil {
		var uerr *service.UploadError
		switch {
		case errors.As(err, &uerr):
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "cabin photo could not be uploaded and the cabin was not saved"})
		case errors.Is(err, repository.ErrCabinNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
		case strings.Contains(err.Error(), "1062"):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cabin name already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save cabin"})
		}
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	return c.JSON(status, saved)
}

// bindCabinForm reads and validates the business fields of the cabin
// form.  It returns a non-empty message on validation failure.
func bindCabinForm(c echo.Context) (*model.Cabin, string) {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return nil, "name is required"
	}
	capacity, err := strconv.ParseUint(c.FormValue("max_capacity"), 10, 32)
	if err != nil || capacity < 1 {
		return nil, "max_capacity must be a positive number"
	}
	price, err := strconv.ParseUint(c.FormValue("regular_price"), 10, 32)
	if err != nil || price < 1 {
		return nil, "regular_price must be a positive number"
	}
	var discount uint64
	if v := c.FormValue("discount"); v != "" {
		discount, err = strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, "discount must be a number"
		}
	}
	if discount > price {
		return nil, "discount cannot exceed regular_price"
	}
	return &model.Cabin{
		Name:         name,
		MaxCapacity:  uint32(capacity),
		RegularPrice: uint32(price),
		Discount:     uint32(discount),
		Description:  c.FormValue("description"),
	}, ""
}
