package controllers

import (
	"esiksha/backend/config"
	"esiksha/backend/middleware"
	"esiksha/backend/models"
	"esiksha/backend/services"
	"esiksha/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	Catalog     services.CatalogService
	Submissions services.SubmissionService
	Cfg         *config.Config
}

func NewCoursesController(catalog services.CatalogService, submissions services.SubmissionService, cfg *config.Config) *CoursesController {
	return &CoursesController{Catalog: catalog, Submissions: submissions, Cfg: cfg}
}

// GetCourses godoc
// @Summary List published courses
// @Tags courses
// @Produce json
// @Param category query string false "Category, 'all' for any"
// @Param level query string false "Level, 'all' for any"
// @Param search query string false "Search in title, description and tags"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 12)"
// @Success 200 {object} map[string]interface{}
// @Router /courses [get]
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	var query services.ListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.BadRequest(c, "Invalid query parameters")
	}

	courses, pagination, err := cc.Catalog.ListCourses(c.UserContext(), query, middleware.CurrentPrincipal(c))
	if err != nil {
		return respondError(c, cc.Cfg, err)
	}
	return utils.Paginate(c, "courses", courses, pagination)
}

// GetCourseDetails godoc
// @Summary Get course
// @Description Returns a course with its latest reviews, regardless of status
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Course not found")
	if err != nil {
		return respondError(c, cc.Cfg, err)
	}

	course, err := cc.Catalog.GetCourse(c.UserContext(), id, middleware.CurrentPrincipal(c))
	if err != nil {
		return respondError(c, cc.Cfg, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"course": course})
}

// SubmitCourse godoc
// @Summary Submit a course
// @Description Admin submissions are published immediately, others wait for review
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param category formData string true "Category"
// @Param thumbnail formData file false "Thumbnail image (or thumbnailUrl)"
// @Param modules formData string false "JSON array of modules"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/submit [post]
func (cc *CoursesController) SubmitCourse(c *fiber.Ctx) error {
	var input services.CourseSubmission
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid form data")
	}

	course, err := cc.Submissions.SubmitCourse(c.UserContext(), middleware.CurrentPrincipal(c), input, formFile(c, "thumbnail"))
	if err != nil {
		return respondError(c, cc.Cfg, err)
	}

	message := "Course submitted for review"
	if course.Status == models.StatusPublished {
		message = "Course published successfully"
	}
	return utils.Created(c, fiber.Map{
		"message":  message,
		"courseId": course.ID,
		"status":   course.Status,
	})
}
