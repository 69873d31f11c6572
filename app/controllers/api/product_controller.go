// Package api holds the JSON controllers mounted under /api.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/storage"
)

// SpecificationPath is the downloadable product specification on the
// storage disk.
const SpecificationPath = "files/product-specification.pdf"

type ProductController struct {
	store  repositories.ProductStore
	disk   storage.Disk
	events *event.Dispatcher
}

func NewProductController(store repositories.ProductStore, disk storage.Disk, events *event.Dispatcher) *ProductController {
	return &ProductController{store: store, disk: disk, events: events}
}

// Index answers with every product as a bare JSON array.
func (pc *ProductController) Index(c *ctx.Context) {
	items, err := pc.store.All(c.Context())
	if err != nil {
		logger.WithCtx(c.Context()).Error("list products", "error", err)
		c.Abort(http.StatusInternalServerError, "")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Store creates a product and answers 201 with it, or 422 with field errors.
func (pc *ProductController) Store(c *ctx.Context) {
	var req requests.ProductRequest
	if !c.BindJSON(&req) {
		return
	}

	p, err := pc.store.Create(c.Context(), req.Fields())
	if err != nil {
		logger.WithCtx(c.Context()).Error("create product", "error", err)
		c.Abort(http.StatusInternalServerError, "")
		return
	}
	pc.events.Dispatch(c.Context(), event.ProductCreated, p)

	c.W.Header().Set("Location", fmt.Sprintf("/api/products/%d", p.ID))
	c.JSON(http.StatusCreated, p)
}

// Download streams the product specification as an attachment.
func (pc *ProductController) Download(c *ctx.Context) {
	rc, info, err := pc.disk.Open(c.Context(), SpecificationPath)
	if errors.Is(err, storage.ErrNotExist) {
		c.Abort(http.StatusNotFound, "Specification not found")
		return
	}
	if err != nil {
		logger.WithCtx(c.Context()).Error("open specification", "error", err)
		c.Abort(http.StatusInternalServerError, "")
		return
	}
	defer rc.Close()

	h := c.W.Header()
	h.Set("Content-Type", info.ContentType)
	h.Set("Content-Disposition", `attachment; filename="product-specification.pdf"`)
	if info.Size > 0 {
		h.Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	c.W.WriteHeader(http.StatusOK)
	if _, err := io.Copy(c.W, rc); err != nil {
		logger.WithCtx(c.Context()).Warn("stream specification", "error", err)
	}
}
