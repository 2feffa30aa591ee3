package controllers

import (
	"mime/multipart"

	"esiksha/backend/apperr"
	"esiksha/backend/config"
	"esiksha/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func respondError(c *fiber.Ctx, cfg *config.Config, err error) error {
	return utils.Error(c, err, !cfg.IsProduction())
}

// paramID parses a UUID route param; malformed ids are reported like unknown ones.
func paramID(c *fiber.Ctx, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.NotFound(notFound)
	}
	return id, nil
}

// formFile returns the first file of a multipart field, or nil.
func formFile(c *fiber.Ctx, field string) *multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	if files := form.File[field]; len(files) > 0 {
		return files[0]
	}
	return nil
}

// formValue reports whether a multipart or urlencoded field was sent at all.
func formValue(c *fiber.Ctx, field string) (*string, bool) {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		if vals, ok := form.Value[field]; ok && len(vals) > 0 {
			return &vals[0], true
		}
		return nil, false
	}
	if c.Request().PostArgs().Has(field) {
		v := c.FormValue(field)
		return &v, true
	}
	return nil, false
}
