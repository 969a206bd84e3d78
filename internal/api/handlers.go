package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bilgisen/content-gateway/internal/approval"
	"github.com/bilgisen/content-gateway/internal/cms"
	"github.com/bilgisen/content-gateway/internal/content"
	"github.com/bilgisen/content-gateway/internal/logger"
	"github.com/bilgisen/content-gateway/internal/models"
	"github.com/gofiber/fiber/v2"
)

// ContentService is the cached read surface consumed by public pages.
type ContentService interface {
	GetArticles(ctx context.Context, q content.ArticleQuery) (*content.ArticleList, error)
	SearchArticles(ctx context.Context, query string, q content.ArticleQuery) (*content.ArticleList, error)
	GetArticleBySlug(ctx context.Context, slug string, fresh bool) (*models.Article, bool, error)
	GetArticleByID(ctx context.Context, id string, fresh bool) (*models.Article, bool, error)
	GetFeaturedArticles(ctx context.Context, limit int, fresh bool) ([]models.Article, bool, error)
	GetCategories(ctx context.Context, locale string, fresh bool) ([]models.Category, bool, error)
	GetAuthors(ctx context.Context, fresh bool) ([]models.Author, bool, error)
	RefreshCache(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	CacheSize() int
}

// ApprovalService is the editorial surface.
type ApprovalService interface {
	Approve(ctx context.Context, action approval.Action) error
	Reject(ctx context.Context, action approval.Action) error
	RequestChanges(ctx context.Context, action approval.Action) error
	Unpublish(ctx context.Context, articleID, reviewerID, reason string) error
	ValidateForApproval(ctx context.Context, articleID string) (*approval.ValidationResult, error)
	GetPendingArticles(ctx context.Context) ([]models.Article, error)
	GetPublishedArticles(ctx context.Context) ([]models.Article, error)
	GetStats(ctx context.Context) (*approval.Stats, error)
	History(articleID string) []approval.AuditEntry
}

type Handlers struct {
	content  ContentService
	approval ApprovalService
}

func NewHandlers(contentSvc ContentService, approvalSvc ApprovalService) *Handlers {
	return &Handlers{
		content:  contentSvc,
		approval: approvalSvc,
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	if err := h.content.HealthCheck(c.Context()); err != nil {
		logger.WithError(err).Msg("Health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":        "ok",
		"cache_entries": h.content.CacheSize(),
		"time":          time.Now().Format(time.RFC3339),
	})
}

// GetArticles handles GET /api/v1/articles
func (h *Handlers) GetArticles(c *fiber.Ctx) error {
	list, err := h.content.GetArticles(c.Context(), articleQueryFromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// SearchArticles handles GET /api/v1/search
func (h *Handlers) SearchArticles(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Search query is required",
		})
	}

	list, err := h.content.SearchArticles(c.Context(), query, articleQueryFromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetArticleBySlug handles GET /api/v1/articles/slug/:slug
func (h *Handlers) GetArticleBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	article, fromCache, err := h.content.GetArticleBySlug(c.Context(), slug, c.QueryBool("fresh"))
	if err != nil {
		var notFound *cms.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Article not found",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"article":    article,
		"from_cache": fromCache,
	})
}

// GetArticleByID handles GET /api/v1/articles/:id
func (h *Handlers) GetArticleByID(c *fiber.Ctx) error {
	id := c.Params("id")
	article, fromCache, err := h.content.GetArticleByID(c.Context(), id, c.QueryBool("fresh"))
	if err != nil {
		var notFound *cms.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Article not found",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"article":    article,
		"from_cache": fromCache,
	})
}

// GetFeaturedArticles handles GET /api/v1/articles/featured
func (h *Handlers) GetFeaturedArticles(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "4"))
	articles, fromCache, err := h.content.GetFeaturedArticles(c.Context(), limit, c.QueryBool("fresh"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"articles":   articles,
		"from_cache": fromCache,
	})
}

// GetCategories handles GET /api/v1/categories
func (h *Handlers) GetCategories(c *fiber.Ctx) error {
	categories, fromCache, err := h.content.GetCategories(c.Context(), c.Query("locale"), c.QueryBool("fresh"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"categories": categories,
		"from_cache": fromCache,
	})
}

// GetAuthors handles GET /api/v1/authors
func (h *Handlers) GetAuthors(c *fiber.Ctx) error {
	authors, fromCache, err := h.content.GetAuthors(c.Context(), c.QueryBool("fresh"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"authors":    authors,
		"from_cache": fromCache,
	})
}

// GetPendingArticles handles GET /api/v1/admin/approval/pending
func (h *Handlers) GetPendingArticles(c *fiber.Ctx) error {
	articles, err := h.approval.GetPendingArticles(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"articles": articles,
		"total":    len(articles),
	})
}

// GetPublishedArticles handles GET /api/v1/admin/approval/published
func (h *Handlers) GetPublishedArticles(c *fiber.Ctx) error {
	articles, err := h.approval.GetPublishedArticles(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"articles": articles,
		"total":    len(articles),
	})
}

// GetApprovalStats handles GET /api/v1/admin/approval/stats
func (h *Handlers) GetApprovalStats(c *fiber.Ctx) error {
	stats, err := h.approval.GetStats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// ValidateArticle handles GET /api/v1/admin/approval/:id/validate
func (h *Handlers) ValidateArticle(c *fiber.Ctx) error {
	result, err := h.approval.ValidateForApproval(c.Context(), c.Params("id"))
	if err != nil {
		var notFound *cms.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Article not found",
			})
		}
		return err
	}
	return c.JSON(result)
}

// ApproveArticle handles POST /api/v1/admin/approval/:id/approve
func (h *Handlers) ApproveArticle(c *fiber.Ctx) error {
	req := c.Locals("validated").(*ActionRequest)
	action := approval.Action{
		ArticleID:  c.Params("id"),
		ReviewerID: req.ReviewerID,
		Notes:      req.Notes,
	}

	if err := h.approval.Approve(c.Context(), action); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":     "published",
		"article_id": action.ArticleID,
	})
}

// RejectArticle handles POST /api/v1/admin/approval/:id/reject
func (h *Handlers) RejectArticle(c *fiber.Ctx) error {
	req := c.Locals("validated").(*ActionRequest)
	action := approval.Action{
		ArticleID:  c.Params("id"),
		ReviewerID: req.ReviewerID,
		Notes:      req.Notes,
	}

	if err := h.approval.Reject(c.Context(), action); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":     "rejected",
		"article_id": action.ArticleID,
	})
}

// RequestChanges handles POST /api/v1/admin/approval/:id/request-changes
func (h *Handlers) RequestChanges(c *fiber.Ctx) error {
	req := c.Locals("validated").(*ActionRequest)
	action := approval.Action{
		ArticleID:  c.Params("id"),
		ReviewerID: req.ReviewerID,
		Notes:      req.Notes,
	}

	if err := h.approval.RequestChanges(c.Context(), action); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":     "changes_requested",
		"article_id": action.ArticleID,
	})
}

// UnpublishArticle handles POST /api/v1/admin/approval/:id/unpublish
func (h *Handlers) UnpublishArticle(c *fiber.Ctx) error {
	req := c.Locals("validated").(*UnpublishRequest)
	id := c.Params("id")

	if err := h.approval.Unpublish(c.Context(), id, req.ReviewerID, req.Reason); err != nil {
		if errors.Is(err, approval.ErrNotPublished) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Article is not published",
			})
		}
		var notFound *cms.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Article not found",
			})
		}
		return err
	}
	return c.JSON(fiber.Map{
		"status":     "unpublished",
		"article_id": id,
	})
}

// GetArticleHistory handles GET /api/v1/admin/approval/:id/history
func (h *Handlers) GetArticleHistory(c *fiber.Ctx) error {
	entries := h.approval.History(c.Params("id"))
	return c.JSON(fiber.Map{
		"entries": entries,
		"total":   len(entries),
	})
}

// RefreshCache handles POST /api/v1/admin/cache/refresh
func (h *Handlers) RefreshCache(c *fiber.Ctx) error {
	if err := h.content.RefreshCache(c.Context()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":        "refreshed",
		"cache_entries": h.content.CacheSize(),
	})
}

func articleQueryFromCtx(c *fiber.Ctx) content.ArticleQuery {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	switch {
	case pageSize > 100:
		pageSize = 100
	case pageSize <= 0:
		pageSize = 20
	}

	return content.ArticleQuery{
		Page:     page,
		PageSize: pageSize,
		Sort:     c.Query("sort"),
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Locale:   c.Query("locale"),
		Fresh:    c.QueryBool("fresh"),
	}
}
