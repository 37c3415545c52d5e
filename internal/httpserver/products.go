package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artshop/internal/middleware/auth"
	"github.com/Skotchmaster/artshop/internal/service"
	"github.com/Skotchmaster/artshop/internal/util"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

type ProductsHTTP struct {
	Catalog *service.CatalogService
}

func (h *ProductsHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.create")

	image, closer, err := formUpload(c, "image")
	if err != nil {
		return fail(l, "product_create_failed", err)
	}
	defer closeUpload(closer)

	req, err := createProductForm(c)
	if err != nil {
		return fail(l, "product_create_failed", err)
	}

	p, err := h.Catalog.Create(ctx, auth.CurrentUser(c), req, image)
	if err != nil {
		return fail(l, "product_create_failed", err)
	}

	l.Info("product_create_success", "product_id", p.ID)
	return ok(c, p)
}

func (h *ProductsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.list")

	items, err := h.Catalog.List(ctx, auth.CurrentUser(c), c.QueryParam("category"))
	if err != nil {
		return fail(l, "get_products_failed", err)
	}
	return ok(c, items)
}

func catalogQuery(c echo.Context) service.CatalogQuery {
	return service.CatalogQuery{
		Search:       c.QueryParam("search"),
		SortBy:       c.QueryParam("sortBy"),
		SortOrder:    c.QueryParam("sortOrder"),
		Page:         util.ParseIntDefault(c.QueryParam("page"), 1),
		ItemsPerPage: util.ParseIntDefault(c.QueryParam("itemsPerPage"), -1),
	}
}

func (h *ProductsHTTP) OwnerCatalog(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.owner_catalog")

	page, err := h.Catalog.OwnerCatalog(ctx, auth.CurrentUser(c), catalogQuery(c))
	if err != nil {
		return fail(l, "owner_catalog_failed", err)
	}
	return ok(c, page)
}

func (h *ProductsHTTP) AllProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.all")

	page, err := h.Catalog.AllProducts(ctx, auth.CurrentUser(c), catalogQuery(c))
	if err != nil {
		return fail(l, "all_products_failed", err)
	}
	return ok(c, page)
}

func (h *ProductsHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Catalog.Search(ctx, auth.CurrentUser(c), c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_failed", err)
	}
	return ok(c, res)
}

func (h *ProductsHTTP) Random(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.random")

	items, err := h.Catalog.Random(ctx, auth.CurrentUser(c))
	if err != nil {
		return fail(l, "random_products_failed", err)
	}
	return ok(c, items)
}

func (h *ProductsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.get")

	p, err := h.Catalog.Get(ctx, auth.CurrentUser(c), c.Param("id"))
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	return ok(c, p)
}

func (h *ProductsHTTP) Edit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.edit")

	image, closer, err := formUpload(c, "image")
	if err != nil {
		return fail(l, "product_patch_failed", err)
	}
	defer closeUpload(closer)

	req, err := patchProductForm(c)
	if err != nil {
		return fail(l, "product_patch_failed", err)
	}

	p, err := h.Catalog.Edit(ctx, auth.CurrentUser(c), c.Param("id"), req, image)
	if err != nil {
		return fail(l, "product_patch_failed", err)
	}

	l.Info("product_patch_success", "product_id", p.ID)
	return ok(c, p)
}
