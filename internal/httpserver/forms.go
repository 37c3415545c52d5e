package httpserver

import (
	"errors"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/images"
	"github.com/Skotchmaster/artshop/internal/transport"
)

// formUpload returns nil when the field is absent.
func formUpload(c echo.Context, field string) (*images.Upload, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, apperr.Wrap(apperr.Validation, "multipart/form-data required", err)
		}
		return nil, nil, invalidBody(err)
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*images.Upload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, invalidBody(err)
	}
	return &images.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

func closeUpload(cl io.Closer) {
	if cl != nil {
		_ = cl.Close()
	}
}

func parsePrice(v string) (*float64, error) {
	p, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(p, 0) || math.IsNaN(p) {
		return nil, apperr.Invalid("price", "price must be a number")
	}
	return &p, nil
}

func parseSell(v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperr.Invalid("sell", "sell must be true or false")
	}
	return b, nil
}

func createProductForm(c echo.Context) (transport.CreateProductRequest, error) {
	req := transport.CreateProductRequest{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
	}
	if v := c.FormValue("price"); v != "" {
		price, err := parsePrice(v)
		if err != nil {
			return req, err
		}
		req.Price = price
	}
	if v := c.FormValue("sell"); v != "" {
		sell, err := parseSell(v)
		if err != nil {
			return req, err
		}
		req.Sell = sell
	}
	return req, nil
}

// patchProductForm only sets the fields present in the form.
func patchProductForm(c echo.Context) (transport.PatchProductRequest, error) {
	var req transport.PatchProductRequest

	params, err := c.FormParams()
	if err != nil {
		return req, invalidBody(err)
	}
	value := func(key string) (string, bool) {
		vs, found := params[key]
		if !found || len(vs) == 0 {
			return "", false
		}
		return vs[0], true
	}

	if v, found := value("name"); found {
		req.Name = &v
	}
	if v, found := value("description"); found {
		req.Description = &v
	}
	if v, found := value("category"); found {
		req.Category = &v
	}
	if v, found := value("price"); found {
		if req.Price, err = parsePrice(v); err != nil {
			return req, err
		}
	}
	if v, found := value("sell"); found {
		sell, err := parseSell(v)
		if err != nil {
			return req, err
		}
		req.Sell = &sell
	}
	return req, nil
}
