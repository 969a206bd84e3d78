package api

import (
	"github.com/bilgisen/content-gateway/internal/config"
	"github.com/bilgisen/content-gateway/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// ActionRequest is the body of a reviewer decision.
type ActionRequest struct {
	ReviewerID string `json:"reviewer_id" validate:"required"`
	Notes      string `json:"notes"`
}

// UnpublishRequest is the body of an unpublish action.
type UnpublishRequest struct {
	ReviewerID string `json:"reviewer_id" validate:"required"`
	Reason     string `json:"reason"`
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, contentSvc ContentService, approvalSvc ApprovalService, cfg *config.Config) {
	handlers := NewHandlers(contentSvc, approvalSvc)
	v := middleware.NewValidator()

	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", handlers.HealthCheck)

	// Public content endpoints (cached read paths)
	api.Get("/articles", handlers.GetArticles)
	api.Get("/articles/featured", handlers.GetFeaturedArticles)
	api.Get("/articles/slug/:slug", handlers.GetArticleBySlug)
	api.Get("/articles/:id", handlers.GetArticleByID)
	api.Get("/categories", handlers.GetCategories)
	api.Get("/authors", handlers.GetAuthors)
	api.Get("/search", handlers.SearchArticles)

	// Admin endpoints, API-key protected
	admin := api.Group("/admin", middleware.AdminOnly(cfg.AdminAPIKey))

	actionBody := middleware.ValidateBody(v, func() interface{} { return new(ActionRequest) })
	unpublishBody := middleware.ValidateBody(v, func() interface{} { return new(UnpublishRequest) })

	admin.Get("/approval/pending", handlers.GetPendingArticles)
	admin.Get("/approval/published", handlers.GetPublishedArticles)
	admin.Get("/approval/stats", handlers.GetApprovalStats)
	admin.Get("/approval/:id/validate", handlers.ValidateArticle)
	admin.Get("/approval/:id/history", handlers.GetArticleHistory)
	admin.Post("/approval/:id/approve", actionBody, handlers.ApproveArticle)
	admin.Post("/approval/:id/reject", actionBody, handlers.RejectArticle)
	admin.Post("/approval/:id/request-changes", actionBody, handlers.RequestChanges)
	admin.Post("/approval/:id/unpublish", unpublishBody, handlers.UnpublishArticle)
	admin.Post("/cache/refresh", handlers.RefreshCache)

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
