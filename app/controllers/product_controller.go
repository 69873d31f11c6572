package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/policies"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/orm"
	"github.com/shashiranjanraj/catalog/pkg/view"
)

// ProductController serves the HTML product pages. Authorization for the
// mutating actions is enforced by route middleware.
type ProductController struct {
	store   repositories.ProductStore
	listing *services.ProductListingService
	events  *event.Dispatcher
}

func NewProductController(store repositories.ProductStore, listing *services.ProductListingService, events *event.Dispatcher) *ProductController {
	return &ProductController{store: store, listing: listing, events: events}
}

// Index lists one page of ten products.
func (pc *ProductController) Index(c *ctx.Context) {
	page, err := pc.listing.ListPage(c.Context(), c.QueryInt("page", 1), orm.DefaultPerPage)
	if err != nil {
		pc.fail(c, "list products", err)
		return
	}

	c.View(http.StatusOK, "products/index", view.Data{
		"products":  page.Items,
		"page":      page.Pagination,
		"prevPage":  page.Page - 1,
		"nextPage":  page.Page + 1,
		"canManage": policies.CanManageProducts(c.Actor()),
	})
}

func (pc *ProductController) Create(c *ctx.Context) {
	c.View(http.StatusOK, "products/create", view.Data{
		"name":  c.Old("name", ""),
		"price": c.Old("price", ""),
	})
}

func (pc *ProductController) Store(c *ctx.Context) {
	var req requests.ProductRequest
	errs, err := c.BindForm(&req)
	if err != nil {
		c.Abort(http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		c.WithErrors(errs, req.Old())
		c.Back("/products/create")
		return
	}

	p, err := pc.store.Create(c.Context(), req.Fields())
	if err != nil {
		pc.fail(c, "create product", err)
		return
	}
	pc.events.Dispatch(c.Context(), event.ProductCreated, p)

	c.Flash("status", "Product created.")
	c.Redirect("/products")
}

func (pc *ProductController) Edit(c *ctx.Context) {
	p, ok := pc.find(c)
	if !ok {
		return
	}
	c.View(http.StatusOK, "products/edit", view.Data{
		"product": p,
		"name":    c.Old("name", p.Name),
		"price":   c.Old("price", p.Price.StringFixed(2)),
	})
}

func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		c.NotFound()
		return
	}

	var req requests.ProductRequest
	errs, err := c.BindForm(&req)
	if err != nil {
		c.Abort(http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		c.WithErrors(errs, req.Old())
		c.Back("/products/" + c.Param("id") + "/edit")
		return
	}

	p, err := pc.store.Update(c.Context(), id, req.Fields())
	if errors.Is(err, models.ErrNotFound) {
		c.NotFound()
		return
	}
	if err != nil {
		pc.fail(c, "update product", err)
		return
	}
	pc.events.Dispatch(c.Context(), event.ProductUpdated, p)

	c.Flash("status", "Product updated.")
	c.Redirect("/products")
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		c.NotFound()
		return
	}
	err := pc.store.Delete(c.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		c.NotFound()
		return
	}
	if err != nil {
		pc.fail(c, "delete product", err)
		return
	}
	pc.events.Dispatch(c.Context(), event.ProductDeleted, id)

	c.Flash("status", "Product deleted.")
	c.Redirect("/products")
}

func (pc *ProductController) find(c *ctx.Context) (*models.Product, bool) {
	id, ok := c.ParamID("id")
	if !ok {
		c.NotFound()
		return nil, false
	}
	p, err := pc.store.Find(c.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		c.NotFound()
		return nil, false
	}
	if err != nil {
		pc.fail(c, "find product", err)
		return nil, false
	}
	return p, true
}

func (pc *ProductController) fail(c *ctx.Context, op string, err error) {
	logger.WithCtx(c.Context()).Error(op, "error", err)
	c.Abort(http.StatusInternalServerError, "")
}
