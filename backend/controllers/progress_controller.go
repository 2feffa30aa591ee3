package controllers

import (
	"esiksha/backend/config"
	"esiksha/backend/middleware"
	"esiksha/backend/services"
	"esiksha/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	Enrollments services.EnrollmentService
	Cfg         *config.Config
}

func NewProgressController(enrollments services.EnrollmentService, cfg *config.Config) *ProgressController {
	return &ProgressController{Enrollments: enrollments, Cfg: cfg}
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Idempotent: a repeated call returns the existing enrollment
// @Tags progress
// @Produce json
// @Param id path string true "Course ID"
// @Success 201 {object} map[string]interface{}
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (pc *ProgressController) Enroll(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id", "Course not found")
	if err != nil {
		return respondError(c, pc.Cfg, err)
	}

	enrollment, already, err := pc.Enrollments.Enroll(c.UserContext(), middleware.CurrentPrincipal(c), courseID)
	if err != nil {
		return respondError(c, pc.Cfg, err)
	}

	if already {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"message":         "Already enrolled in this course",
			"enrollment":      enrollment,
			"alreadyEnrolled": true,
		})
	}
	return utils.Created(c, fiber.Map{
		"message":    "Successfully enrolled in course",
		"enrollment": enrollment,
	})
}

// UpdateProgress godoc
// @Summary Update course progress
// @Tags progress
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param input body services.ProgressUpdate true "Progress (0-100) and/or completed"
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id}/progress [post]
func (pc *ProgressController) UpdateProgress(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id", "Course not found")
	if err != nil {
		return respondError(c, pc.Cfg, err)
	}

	var input services.ProgressUpdate
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse request body")
	}

	enrollment, err := pc.Enrollments.UpdateProgress(c.UserContext(), middleware.CurrentPrincipal(c), courseID, input)
	if err != nil {
		return respondError(c, pc.Cfg, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":    "Progress updated",
		"enrollment": enrollment,
	})
}
