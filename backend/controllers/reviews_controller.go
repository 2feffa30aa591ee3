package controllers

import (
	"esiksha/backend/config"
	"esiksha/backend/middleware"
	"esiksha/backend/services"
	"esiksha/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ReviewsController struct {
	Reviews services.ReviewService
	Cfg     *config.Config
}

func NewReviewsController(reviews services.ReviewService, cfg *config.Config) *ReviewsController {
	return &ReviewsController{Reviews: reviews, Cfg: cfg}
}

// AddReview godoc
// @Summary Review a course or notes
// @Description Exactly one of courseId/notesId. One review per account and item.
// @Tags reviews
// @Accept json
// @Produce json
// @Param input body services.ReviewInput true "Review"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /reviews [post]
func (rc *ReviewsController) AddReview(c *fiber.Ctx) error {
	var input services.ReviewInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse request body")
	}

	review, err := rc.Reviews.AddReview(c.UserContext(), middleware.CurrentPrincipal(c), input)
	if err != nil {
		return respondError(c, rc.Cfg, err)
	}
	return utils.Created(c, fiber.Map{
		"message": "Review added successfully",
		"review":  review,
	})
}
