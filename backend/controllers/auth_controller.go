package controllers

import (
	"esiksha/backend/config"
	"esiksha/backend/services"
	"esiksha/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Auth services.AuthService
	Cfg  *config.Config
}

func NewAuthController(auth services.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{Auth: auth, Cfg: cfg}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new account and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param user body services.RegisterInput true "User registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse request body")
	}

	user, token, err := ac.Auth.Register(c.UserContext(), input)
	if err != nil {
		return respondError(c, ac.Cfg, err)
	}

	return utils.Created(c, fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginInput true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse request body")
	}

	user, token, err := ac.Auth.Login(c.UserContext(), input)
	if err != nil {
		return respondError(c, ac.Cfg, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}
