package controllers

import (
	"fmt"

	"esiksha/backend/config"
	"esiksha/backend/models"
	"esiksha/backend/services"
	"esiksha/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminController struct {
	Moderation services.ModerationService
	Admin      services.AdminService
	Users      services.UserService
	Cfg        *config.Config
}

func NewAdminController(moderation services.ModerationService, admin services.AdminService, users services.UserService, cfg *config.Config) *AdminController {
	return &AdminController{Moderation: moderation, Admin: admin, Users: users, Cfg: cfg}
}

// GetPending godoc
// @Summary Pending submissions
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/pending [get]
func (ac *AdminController) GetPending(c *fiber.Ctx) error {
	pending, err := ac.Moderation.ListPending(c.UserContext())
	if err != nil {
		return respondError(c, ac.Cfg, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"courses": pending.Courses,
		"notes":   pending.Notes,
		"counts":  pending.Counts,
	})
}

// ModerateContent godoc
// @Summary Approve or reject a submission
// @Tags admin
// @Accept json
// @Produce json
// @Param type path string true "course or notes"
// @Param id path string true "Content ID"
// @Param input body map[string]string true "action: approve|reject, reason"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/content/{type}/{id}/approve [post]
func (ac *AdminController) ModerateContent(c *fiber.Ctx) error {
	var input struct {
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse request body")
	}

	// a malformed id parses to uuid.Nil and is reported as not found
	id, _ := uuid.Parse(c.Params("id"))

	decision, err := ac.Moderation.Moderate(c.UserContext(), c.Params("type"), input.Action, id, input.Reason)
	if err != nil {
		return respondError(c, ac.Cfg, err)
	}

	label := "Course"
	if decision.Kind == models.KindNotes {
		label = "Notes"
	}
	verb := "approved"
	if decision.Status == models.StatusRejected {
		verb = "rejected"
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": fmt.Sprintf("%s %s successfully", label, verb),
		string(decision.Kind): fiber.Map{
			"id":     decision.ID,
			"title":  decision.Title,
			"status": decision.Status,
		},
	})
}

// GetStats godoc
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/stats [get]
func (ac *AdminController) GetStats(c *fiber.Ctx) error {
	stats, recent, err := ac.Admin.Stats(c.UserContext())
	if err != nil {
		return respondError(c, ac.Cfg, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"stats":  stats,
		"recent": recent,
	})
}

// GetUsers godoc
// @Summary All accounts, newest first
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (ac *AdminController) GetUsers(c *fiber.Ctx) error {
	users, err := ac.Users.List(c.UserContext())
	if err != nil {
		return respondError(c, ac.Cfg, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"users": users})
}

// SetUserStatus godoc
// @Summary Activate or deactivate an account
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param input body map[string]bool true "isActive"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id}/status [patch]
func (ac *AdminController) SetUserStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "User not found")
	if err != nil {
		return respondError(c, ac.Cfg, err)
	}

	var input struct {
		IsActive *bool `json:"isActive"`
	}
	if err := c.BodyParser(&input); err != nil || input.IsActive == nil {
		return utils.BadRequest(c, "isActive is required")
	}

	user, err := ac.Users.SetActive(c.UserContext(), id, *input.IsActive)
	if err != nil {
		return respondError(c, ac.Cfg, err)
	}
	message := "User deactivated"
	if user.IsActive {
		message = "User activated"
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": message,
		"user":    user,
	})
}
