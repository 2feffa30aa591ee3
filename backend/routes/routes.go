package routes

import (
	"esiksha/backend/authz"
	"esiksha/backend/config"
	"esiksha/backend/controllers"
	"esiksha/backend/middleware"
	"esiksha/backend/services"
	"esiksha/backend/storage"
	"esiksha/backend/utils"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// NewApp builds the Fiber app with the global middleware stack.
func NewApp(cfg *config.Config, logger *utils.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "E Siksha API",
		BodyLimit:    int(2*cfg.MaxUploadSize + 1<<20),
		ErrorHandler: utils.NewErrorHandler(logger, !cfg.IsProduction(), cfg.MaxUploadSize),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(middleware.LoggingMiddleware(logger))
	app.Use(middleware.MetricsMiddleware())
	return app
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *utils.Logger, store *storage.LocalStore, enforcer *authz.Enforcer) {
	// Services
	authService := services.NewAuthService(db, logger, cfg)
	userService := services.NewUserService(db, logger, store)
	catalogService := services.NewCatalogService(db, logger)
	submissionService := services.NewSubmissionService(db, logger, store, enforcer)
	moderationService := services.NewModerationService(db, logger)
	enrollmentService := services.NewEnrollmentService(db, logger)
	reviewService := services.NewReviewService(db, logger)
	adminService := services.NewAdminService(db, logger)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)
	can := func(capability authz.Capability) fiber.Handler {
		return middleware.RequireCapability(enforcer, capability, "You do not have permission to perform this action")
	}
	admin := func(capability authz.Capability) fiber.Handler {
		return middleware.AdminMiddleware(enforcer, capability)
	}

	app.Static("/uploads", store.Dir())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	healthController := controllers.NewHealthController(db)
	api.Get("/test", healthController.Check)

	// Auth routes
	authController := controllers.NewAuthController(authService, cfg)
	api.Post("/register", authController.Register)
	api.Post("/login", authController.Login)

	// User routes
	userController := controllers.NewUserController(userService, cfg)
	user := api.Group("/user", authMiddleware)
	user.Get("/me", userController.GetProfile)
	user.Put("/profile", can(authz.EditProfile), userController.UpdateProfile)
	user.Get("/dashboard", userController.GetDashboard)

	// Courses routes
	coursesController := controllers.NewCoursesController(catalogService, submissionService, cfg)
	progressController := controllers.NewProgressController(enrollmentService, cfg)
	api.Get("/courses", optionalAuth, coursesController.GetCourses)
	api.Post("/courses/submit", authMiddleware, can(authz.SubmitContent), coursesController.SubmitCourse)
	api.Get("/courses/:id", optionalAuth, coursesController.GetCourseDetails)
	api.Post("/courses/:id/enroll", authMiddleware, can(authz.EnrollCourse), progressController.Enroll)
	api.Post("/courses/:id/progress", authMiddleware, can(authz.EnrollCourse), progressController.UpdateProgress)

	// Notes routes
	notesController := controllers.NewNotesController(catalogService, submissionService, store, cfg)
	api.Get("/notes", notesController.GetNotes)
	api.Post("/notes/submit", authMiddleware, can(authz.SubmitContent), notesController.SubmitNotes)
	api.Get("/notes/:id", notesController.GetNoteDetails)
	api.Get("/notes/:id/download", notesController.DownloadNotes)

	// Reviews routes
	reviewsController := controllers.NewReviewsController(reviewService, cfg)
	api.Post("/reviews", authMiddleware, can(authz.WriteReview), reviewsController.AddReview)

	// Admin routes
	adminController := controllers.NewAdminController(moderationService, adminService, userService, cfg)
	adminGroup := api.Group("/admin", authMiddleware)
	adminGroup.Get("/pending", admin(authz.ModerateContent), adminController.GetPending)
	adminGroup.Post("/content/:type/:id/approve", admin(authz.ModerateContent), adminController.ModerateContent)
	adminGroup.Get("/stats", admin(authz.ViewStats), adminController.GetStats)
	adminGroup.Get("/users", admin(authz.ManageUsers), adminController.GetUsers)
	adminGroup.Patch("/users/:id/status", admin(authz.ManageUsers), adminController.SetUserStatus)

	api.Use(func(c *fiber.Ctx) error {
		return utils.NotFound(c, "API endpoint not found")
	})
}
