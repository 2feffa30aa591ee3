package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const apiVersion = "1.0.0"

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Check godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /test [get]
func (hc *HealthController) Check(c *fiber.Ctx) error {
	database := "Connected"
	status := fiber.StatusOK
	if sqlDB, err := hc.DB.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		database = "Disconnected"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"success":   status == fiber.StatusOK,
		"message":   "E Siksha API is running",
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   apiVersion,
	})
}
