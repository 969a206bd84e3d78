package approval

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bilgisen/content-gateway/internal/cms"
	"github.com/bilgisen/content-gateway/internal/config"
	"github.com/bilgisen/content-gateway/internal/logger"
	"github.com/bilgisen/content-gateway/internal/models"
	"github.com/google/uuid"
)

// Status is the editorial vocabulary shown to reviewers. The upstream CMS
// only distinguishes "has a publish timestamp" from "does not"; the richer
// states are derived from that flag plus locally recorded reviewer actions
// and are not persisted upstream.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusPublished     Status = "published"
)

// minContentLength is the smallest content body the approval gate accepts.
const minContentLength = 100

// Action is one reviewer decision on an article.
type Action struct {
	ArticleID  string `json:"article_id" validate:"required"`
	ReviewerID string `json:"reviewer_id" validate:"required"`
	Notes      string `json:"notes"`
}

// AuditEntry records a reviewer action. The log is in-memory only; it backs
// the derived status vocabulary and is lost on restart, collapsing
// unpublished articles back to pending_review.
type AuditEntry struct {
	ID         string    `json:"id"`
	ArticleID  string    `json:"article_id"`
	ReviewerID string    `json:"reviewer_id"`
	Action     string    `json:"action"`
	Notes      string    `json:"notes,omitempty"`
	At         time.Time `json:"at"`
}

// ValidationIssue is one completeness problem found by the approval gate.
// Advisory issues are reported but do not block validity.
type ValidationIssue struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Advisory bool   `json:"advisory"`
}

// ValidationResult is the advisory output of the approval gate. It is data,
// not an error: the caller decides whether to proceed.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Issues  []ValidationIssue `json:"issues"`
}

// Stats summarizes the editorial pipeline.
type Stats struct {
	Pending   int `json:"pending"`
	Published int `json:"published"`
	Total     int `json:"total"`
}

// Adapter is the upstream surface the approval flow needs: current reads
// plus the single publish-timestamp mutation.
type Adapter interface {
	ListArticles(ctx context.Context, params cms.ListParams) ([]models.Article, models.Pagination, error)
	GetArticleByID(ctx context.Context, id string) (*models.Article, error)
	SetPublishedAt(ctx context.Context, id string, publishedAt *time.Time) error
}

// Service implements the editorial state machine. It talks to the adapter
// directly, never through the read cache: approval decisions must be made
// against current data.
type Service struct {
	adapter Adapter

	defaultLocale string
	altLocale     string

	mu         sync.Mutex
	audit      []AuditEntry
	lastAction map[string]string

	now func() time.Time
}

func NewService(adapter Adapter, cfg *config.Config) *Service {
	return &Service{
		adapter:       adapter,
		defaultLocale: cfg.DefaultLocale,
		altLocale:     cfg.AltLocale,
		lastAction:    make(map[string]string),
		now:           time.Now,
	}
}

// StatusFor derives the editorial status for an article from its publish
// timestamp and the locally recorded reviewer actions.
func (s *Service) StatusFor(article *models.Article) Status {
	if article.IsPublished() {
		return StatusPublished
	}
	s.mu.Lock()
	last := s.lastAction[article.ID]
	s.mu.Unlock()
	switch last {
	case "reject":
		return StatusRejected
	case "request_changes":
		return StatusDraft
	case "approve":
		// Approved locally but the timestamp write has not been observed
		// yet (or was reverted by unpublish upstream).
		return StatusApproved
	default:
		return StatusPendingReview
	}
}

// Approve writes the current time as the article's publish timestamp. It
// does not run the validation gate — validation is an advisory query the
// editorial UI is expected to issue first.
func (s *Service) Approve(ctx context.Context, action Action) error {
	ts := s.now().UTC()
	if err := s.adapter.SetPublishedAt(ctx, action.ArticleID, &ts); err != nil {
		logger.WithError(err).
			Str("article_id", action.ArticleID).
			Str("reviewer_id", action.ReviewerID).
			Msg("Approve failed, upstream write rejected")
		return fmt.Errorf("approve article %s: %w", action.ArticleID, err)
	}

	s.record(action, "approve")
	logger.Info().
		Str("article_id", action.ArticleID).
		Str("reviewer_id", action.ReviewerID).
		Time("published_at", ts).
		Msg("Article approved and published")
	return nil
}

// Reject records the decision without touching upstream data; the article
// simply stays unpublished.
func (s *Service) Reject(ctx context.Context, action Action) error {
	s.record(action, "reject")
	logger.Info().
		Str("article_id", action.ArticleID).
		Str("reviewer_id", action.ReviewerID).
		Msg("Article rejected")
	return nil
}

// RequestChanges records that the article needs editorial rework. No
// upstream mutation.
func (s *Service) RequestChanges(ctx context.Context, action Action) error {
	s.record(action, "request_changes")
	logger.Info().
		Str("article_id", action.ArticleID).
		Str("reviewer_id", action.ReviewerID).
		Msg("Changes requested for article")
	return nil
}

// ErrNotPublished is returned when unpublish is attempted on an article
// that has no publish timestamp.
var ErrNotPublished = fmt.Errorf("article is not published")

// Unpublish clears the publish timestamp, reverting a published article to
// the unpublished pool. Valid from the published state only.
func (s *Service) Unpublish(ctx context.Context, articleID, reviewerID, reason string) error {
	article, err := s.adapter.GetArticleByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("unpublish article %s: %w", articleID, err)
	}
	if !article.IsPublished() {
		return fmt.Errorf("unpublish article %s: %w", articleID, ErrNotPublished)
	}

	if err := s.adapter.SetPublishedAt(ctx, articleID, nil); err != nil {
		logger.WithError(err).
			Str("article_id", articleID).
			Str("reviewer_id", reviewerID).
			Msg("Unpublish failed, upstream write rejected")
		return fmt.Errorf("unpublish article %s: %w", articleID, err)
	}

	s.record(Action{ArticleID: articleID, ReviewerID: reviewerID, Notes: reason}, "unpublish")
	logger.Info().
		Str("article_id", articleID).
		Str("reviewer_id", reviewerID).
		Str("reason", reason).
		Msg("Article unpublished")
	return nil
}

// ValidateForApproval checks an article's completeness ahead of an approve
// transition. Missing SEO fields are advisory; everything else blocks.
func (s *Service) ValidateForApproval(ctx context.Context, articleID string) (*ValidationResult, error) {
	article, err := s.adapter.GetArticleByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("validate article %s: %w", articleID, err)
	}

	var issues []ValidationIssue

	title, _ := article.Title.ForLocale(s.defaultLocale, s.altLocale)
	if title == "" {
		issues = append(issues, ValidationIssue{
			Field:   "title",
			Message: "title must not be empty",
		})
	}

	content, _ := article.Content.ForLocale(s.defaultLocale, s.altLocale)
	if n := utf8.RuneCountInString(content); n < minContentLength {
		issues = append(issues, ValidationIssue{
			Field:   "content",
			Message: fmt.Sprintf("content length %d is below the minimum of %d characters", n, minContentLength),
		})
	}

	excerpt, _ := article.Excerpt.ForLocale(s.defaultLocale, s.altLocale)
	if excerpt == "" {
		issues = append(issues, ValidationIssue{
			Field:   "excerpt",
			Message: "excerpt must not be empty",
		})
	}

	if article.Category == nil {
		issues = append(issues, ValidationIssue{
			Field:   "category",
			Message: "article has no category reference",
		})
	}
	if article.Author == nil {
		issues = append(issues, ValidationIssue{
			Field:   "author",
			Message: "article has no author reference",
		})
	}
	if article.Slug == "" {
		issues = append(issues, ValidationIssue{
			Field:   "slug",
			Message: "slug must not be empty",
		})
	}

	if article.SeoTitle == "" {
		issues = append(issues, ValidationIssue{
			Field:    "seo_title",
			Message:  "SEO title is missing",
			Advisory: true,
		})
	}
	if article.SeoDesc == "" {
		issues = append(issues, ValidationIssue{
			Field:    "seo_description",
			Message:  "SEO description is missing",
			Advisory: true,
		})
	}

	result := &ValidationResult{IsValid: true, Issues: issues}
	for _, issue := range issues {
		if !issue.Advisory {
			result.IsValid = false
			break
		}
	}
	return result, nil
}

// GetPendingArticles lists articles awaiting review, newest edits first.
// Always an uncached adapter query.
func (s *Service) GetPendingArticles(ctx context.Context) ([]models.Article, error) {
	articles, _, err := s.adapter.ListArticles(ctx, cms.ListParams{
		Page:     1,
		PageSize: 100,
		Sort:     "updatedAt:desc",
		Filters:  []cms.Filter{cms.Null("publishedAt")},
	})
	if err != nil {
		logger.WithError(err).Msg("Failed to list pending articles")
		return nil, err
	}
	return articles, nil
}

// GetPublishedArticles lists publicly visible articles, newest first.
// Always an uncached adapter query.
func (s *Service) GetPublishedArticles(ctx context.Context) ([]models.Article, error) {
	articles, _, err := s.adapter.ListArticles(ctx, cms.ListParams{
		Page:     1,
		PageSize: 100,
		Sort:     "publishedAt:desc",
		Filters:  []cms.Filter{cms.NotNull("publishedAt")},
	})
	if err != nil {
		logger.WithError(err).Msg("Failed to list published articles")
		return nil, err
	}
	return articles, nil
}

// GetStats counts the editorial pipeline using the upstream pagination
// totals, so the numbers stay correct past one page.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	_, pendingMeta, err := s.adapter.ListArticles(ctx, cms.ListParams{
		Page:     1,
		PageSize: 1,
		Filters:  []cms.Filter{cms.Null("publishedAt")},
	})
	if err != nil {
		return nil, fmt.Errorf("count pending articles: %w", err)
	}

	_, publishedMeta, err := s.adapter.ListArticles(ctx, cms.ListParams{
		Page:     1,
		PageSize: 1,
		Filters:  []cms.Filter{cms.NotNull("publishedAt")},
	})
	if err != nil {
		return nil, fmt.Errorf("count published articles: %w", err)
	}

	return &Stats{
		Pending:   pendingMeta.Total,
		Published: publishedMeta.Total,
		Total:     pendingMeta.Total + publishedMeta.Total,
	}, nil
}

// History returns the recorded reviewer actions for an article, oldest
// first.
func (s *Service) History(articleID string) []AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []AuditEntry
	for _, e := range s.audit {
		if e.ArticleID == articleID {
			entries = append(entries, e)
		}
	}
	return entries
}

func (s *Service) record(action Action, name string) {
	entry := AuditEntry{
		ID:         uuid.NewString(),
		ArticleID:  action.ArticleID,
		ReviewerID: action.ReviewerID,
		Action:     name,
		Notes:      action.Notes,
		At:         s.now().UTC(),
	}
	s.mu.Lock()
	s.audit = append(s.audit, entry)
	s.lastAction[action.ArticleID] = name
	s.mu.Unlock()
}
