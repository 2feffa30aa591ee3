package controllers

import (
	"esiksha/backend/config"
	"esiksha/backend/middleware"
	"esiksha/backend/models"
	"esiksha/backend/services"
	"esiksha/backend/storage"
	"esiksha/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type NotesController struct {
	Catalog     services.CatalogService
	Submissions services.SubmissionService
	Store       storage.Uploader
	Cfg         *config.Config
}

func NewNotesController(catalog services.CatalogService, submissions services.SubmissionService, store storage.Uploader, cfg *config.Config) *NotesController {
	return &NotesController{Catalog: catalog, Submissions: submissions, Store: store, Cfg: cfg}
}

// GetNotes godoc
// @Summary List published notes
// @Tags notes
// @Produce json
// @Param category query string false "Category, 'all' for any"
// @Param search query string false "Search in title, description and tags"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 12)"
// @Success 200 {object} map[string]interface{}
// @Router /notes [get]
func (nc *NotesController) GetNotes(c *fiber.Ctx) error {
	var query services.ListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.BadRequest(c, "Invalid query parameters")
	}

	notes, pagination, err := nc.Catalog.ListNotes(c.UserContext(), query)
	if err != nil {
		return respondError(c, nc.Cfg, err)
	}
	return utils.Paginate(c, "notes", notes, pagination)
}

// GetNoteDetails godoc
// @Summary Get notes
// @Description Every lookup increments the download counter
// @Tags notes
// @Produce json
// @Param id path string true "Notes ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /notes/{id} [get]
func (nc *NotesController) GetNoteDetails(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Notes not found")
	if err != nil {
		return respondError(c, nc.Cfg, err)
	}

	notes, err := nc.Catalog.GetNote(c.UserContext(), id)
	if err != nil {
		return respondError(c, nc.Cfg, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"note": notes})
}

// SubmitNotes godoc
// @Summary Submit notes
// @Description Upload a file or share a link; admin submissions are published immediately
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param category formData string true "Category"
// @Param contentType formData string true "file or link"
// @Param file formData file false "Notes file"
// @Param externalUrl formData string false "Link for contentType=link"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes/submit [post]
func (nc *NotesController) SubmitNotes(c *fiber.Ctx) error {
	var input services.NotesSubmission
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid form data")
	}

	files := services.NotesFiles{
		File:      formFile(c, "file"),
		Thumbnail: formFile(c, "thumbnail"),
	}
	notes, err := nc.Submissions.SubmitNotes(c.UserContext(), middleware.CurrentPrincipal(c), input, files)
	if err != nil {
		return respondError(c, nc.Cfg, err)
	}

	message := "Notes submitted for review"
	if notes.Status == models.StatusPublished {
		message = "Notes published successfully"
	}
	return utils.Created(c, fiber.Map{
		"message": message,
		"notesId": notes.ID,
		"status":  notes.Status,
	})
}

// DownloadNotes godoc
// @Summary Download notes
// @Description Streams an uploaded file or redirects to the external link
// @Tags notes
// @Param id path string true "Notes ID"
// @Success 200 {file} file
// @Success 302
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /notes/{id}/download [get]
func (nc *NotesController) DownloadNotes(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Notes not found")
	if err != nil {
		return respondError(c, nc.Cfg, err)
	}

	notes, err := nc.Catalog.DownloadNote(c.UserContext(), id)
	if err != nil {
		return respondError(c, nc.Cfg, err)
	}

	if notes.ContentType == models.ContentLink {
		return c.Redirect(notes.ExternalURL, fiber.StatusFound)
	}
	path, err := nc.Store.Resolve(notes.FileURL)
	if err != nil {
		return respondError(c, nc.Cfg, err)
	}
	name := notes.OriginalFileName
	if name == "" {
		name = notes.Title
	}
	return c.Download(path, name)
}
