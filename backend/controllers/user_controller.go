package controllers

import (
	"strings"

	"esiksha/backend/apperr"
	"esiksha/backend/config"
	"esiksha/backend/middleware"
	"esiksha/backend/services"
	"esiksha/backend/utils"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Users services.UserService
	Cfg   *config.Config
}

func NewUserController(users services.UserService, cfg *config.Config) *UserController {
	return &UserController{Users: users, Cfg: cfg}
}

// GetProfile godoc
// @Summary Get current user
// @Tags user
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/me [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	principal := middleware.CurrentPrincipal(c)
	user, err := uc.Users.Get(c.UserContext(), principal.ID)
	if err != nil {
		return respondError(c, uc.Cfg, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"user": user})
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Updates name, bio, skills and avatar. Only sent fields change.
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Param fullName formData string false "Full name"
// @Param bio formData string false "Bio"
// @Param skills formData string false "JSON array of skills"
// @Param avatar formData file false "Avatar image"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	var update services.ProfileUpdate

	if c.Is("json") {
		var body struct {
			FullName *string  `json:"fullName"`
			Bio      *string  `json:"bio"`
			Skills   []string `json:"skills"`
		}
		if err := c.BodyParser(&body); err != nil {
			return utils.BadRequest(c, "Cannot parse request body")
		}
		update.FullName, update.Bio = body.FullName, body.Bio
		if body.Skills != nil {
			update.Skills = &body.Skills
		}
	} else {
		update.FullName, _ = formValue(c, "fullName")
		update.Bio, _ = formValue(c, "bio")
		if raw, ok := formValue(c, "skills"); ok && strings.TrimSpace(*raw) != "" {
			var skills []string
			if err := json.Unmarshal([]byte(*raw), &skills); err != nil {
				return respondError(c, uc.Cfg, apperr.Validation("Skills must be a JSON array of strings"))
			}
			update.Skills = &skills
		}
	}

	user, err := uc.Users.UpdateProfile(c.UserContext(), middleware.CurrentPrincipal(c), update, formFile(c, "avatar"))
	if err != nil {
		return respondError(c, uc.Cfg, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// GetDashboard godoc
// @Summary Dashboard data
// @Description Recent enrollments and learning/submission counters for the caller
// @Tags user
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /user/dashboard [get]
func (uc *UserController) GetDashboard(c *fiber.Ctx) error {
	dashboard, err := uc.Users.Dashboard(c.UserContext(), middleware.CurrentPrincipal(c))
	if err != nil {
		return respondError(c, uc.Cfg, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"data": dashboard})
}
