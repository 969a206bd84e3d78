package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bilgisen/content-gateway/internal/cms"
	"github.com/bilgisen/content-gateway/internal/config"
	"github.com/bilgisen/content-gateway/internal/logger"
	"github.com/bilgisen/content-gateway/internal/models"
	"github.com/bilgisen/content-gateway/internal/utils"
)

// Adapter is the upstream read surface the service wraps.
type Adapter interface {
	ListArticles(ctx context.Context, params cms.ListParams) ([]models.Article, models.Pagination, error)
	GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetArticleByID(ctx context.Context, id string) (*models.Article, error)
	ListCategories(ctx context.Context, locale string) ([]models.Category, error)
	ListAuthors(ctx context.Context) ([]models.Author, error)
}

// ContentCache is the keyed TTL store behind the read paths.
type ContentCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Clear()
	Len() int
}

// ArticleQuery narrows a public article listing.
type ArticleQuery struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Sort     string `json:"sort"`
	Category string `json:"category"`
	Tag      string `json:"tag"`
	Locale   string `json:"locale"`

	// Fresh bypasses the cache for this call. Used by administrative
	// refresh and by editorial queries that must see current data.
	Fresh bool `json:"-"`
}

// ArticleList is a page of articles tagged with its cache provenance.
type ArticleList struct {
	Articles   []models.Article  `json:"articles"`
	Pagination models.Pagination `json:"pagination"`
	FromCache  bool              `json:"from_cache"`
}

// Service is the read-through cache over the upstream adapter. Errors are
// never cached and never answered with stale data; they propagate so the
// caller can fall back at the page level.
type Service struct {
	adapter Adapter
	cache   ContentCache

	articleTTL  time.Duration
	taxonomyTTL time.Duration

	defaultLocale string
	altLocale     string
}

func NewService(adapter Adapter, store ContentCache, cfg *config.Config) *Service {
	return &Service{
		adapter:       adapter,
		cache:         store,
		articleTTL:    cfg.ArticleCacheTTL,
		taxonomyTTL:   cfg.TaxonomyCacheTTL,
		defaultLocale: cfg.DefaultLocale,
		altLocale:     cfg.AltLocale,
	}
}

// GetArticles returns one page of published articles.
func (s *Service) GetArticles(ctx context.Context, q ArticleQuery) (*ArticleList, error) {
	key := cacheKey("articles", q)
	if !q.Fresh {
		if v, ok := s.cache.Get(key); ok {
			list := v.(ArticleList)
			list.FromCache = true
			return &list, nil
		}
	}

	params := cms.ListParams{
		Page:     q.Page,
		PageSize: q.PageSize,
		Sort:     q.Sort,
		Locale:   q.Locale,
		Filters:  []cms.Filter{cms.NotNull("publishedAt")},
	}
	if params.Sort == "" {
		params.Sort = "publishedAt:desc"
	}
	if q.Category != "" {
		params.Filters = append(params.Filters, cms.Eq(q.Category, "category", "slug"))
	}
	if q.Tag != "" {
		params.Filters = append(params.Filters, cms.ContainsI(q.Tag, "tags"))
	}

	articles, pagination, err := s.adapter.ListArticles(ctx, params)
	if err != nil {
		return nil, err
	}

	list := ArticleList{Articles: articles, Pagination: pagination}
	s.cache.Set(key, list, s.articleTTL)
	return &list, nil
}

// SearchArticles runs a case-insensitive text search over title, excerpt
// and content of published articles.
func (s *Service) SearchArticles(ctx context.Context, query string, q ArticleQuery) (*ArticleList, error) {
	key := cacheKey("search", struct {
		Query string `json:"query"`
		ArticleQuery
	}{query, q})
	if !q.Fresh {
		if v, ok := s.cache.Get(key); ok {
			list := v.(ArticleList)
			list.FromCache = true
			return &list, nil
		}
	}

	params := cms.ListParams{
		Page:     q.Page,
		PageSize: q.PageSize,
		Sort:     "publishedAt:desc",
		Locale:   q.Locale,
		Filters: []cms.Filter{
			cms.NotNull("publishedAt"),
			cms.Or(
				cms.ContainsI(query, "title"),
				cms.ContainsI(query, "excerpt"),
				cms.ContainsI(query, "content"),
			),
		},
	}

	articles, pagination, err := s.adapter.ListArticles(ctx, params)
	if err != nil {
		return nil, err
	}

	list := ArticleList{Articles: articles, Pagination: pagination}
	s.cache.Set(key, list, s.articleTTL)
	return &list, nil
}

// GetArticleBySlug returns the article and whether it was served from cache.
func (s *Service) GetArticleBySlug(ctx context.Context, slug string, fresh bool) (*models.Article, bool, error) {
	key := cacheKey("article_by_slug", struct {
		Slug string `json:"slug"`
	}{slug})
	if !fresh {
		if v, ok := s.cache.Get(key); ok {
			art := v.(models.Article)
			return &art, true, nil
		}
	}

	art, err := s.adapter.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(key, *art, s.articleTTL)
	return art, false, nil
}

func (s *Service) GetArticleByID(ctx context.Context, id string, fresh bool) (*models.Article, bool, error) {
	key := cacheKey("article_by_id", struct {
		ID string `json:"id"`
	}{id})
	if !fresh {
		if v, ok := s.cache.Get(key); ok {
			art := v.(models.Article)
			return &art, true, nil
		}
	}

	art, err := s.adapter.GetArticleByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(key, *art, s.articleTTL)
	return art, false, nil
}

// GetFeaturedArticles returns up to limit published articles flagged as
// featured, newest first.
func (s *Service) GetFeaturedArticles(ctx context.Context, limit int, fresh bool) ([]models.Article, bool, error) {
	if limit <= 0 {
		limit = 4
	}
	key := cacheKey("featured", struct {
		Limit int `json:"limit"`
	}{limit})
	if !fresh {
		if v, ok := s.cache.Get(key); ok {
			return v.([]models.Article), true, nil
		}
	}

	params := cms.ListParams{
		Page:     1,
		PageSize: limit,
		Sort:     "publishedAt:desc",
		Filters: []cms.Filter{
			cms.NotNull("publishedAt"),
			cms.Eq("true", "featured"),
		},
	}
	articles, _, err := s.adapter.ListArticles(ctx, params)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(key, articles, s.articleTTL)
	return articles, false, nil
}

func (s *Service) GetCategories(ctx context.Context, locale string, fresh bool) ([]models.Category, bool, error) {
	if locale == "" {
		locale = s.defaultLocale
	}
	key := cacheKey("categories", struct {
		Locale string `json:"locale"`
	}{locale})
	if !fresh {
		if v, ok := s.cache.Get(key); ok {
			return v.([]models.Category), true, nil
		}
	}

	categories, err := s.adapter.ListCategories(ctx, locale)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(key, categories, s.taxonomyTTL)
	return categories, false, nil
}

func (s *Service) GetAuthors(ctx context.Context, fresh bool) ([]models.Author, bool, error) {
	key := cacheKey("authors", struct{}{})
	if !fresh {
		if v, ok := s.cache.Get(key); ok {
			return v.([]models.Author), true, nil
		}
	}

	authors, err := s.adapter.ListAuthors(ctx)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(key, authors, s.taxonomyTTL)
	return authors, false, nil
}

// RefreshCache clears every entry and eagerly re-populates the high-traffic
// keys so the next round of public requests does not all pay the cold-cache
// penalty at once.
func (s *Service) RefreshCache(ctx context.Context) error {
	s.cache.Clear()

	var errs []error
	for _, locale := range []string{s.defaultLocale, s.altLocale} {
		if locale == "" {
			continue
		}
		if _, _, err := s.GetCategories(ctx, locale, false); err != nil {
			errs = append(errs, fmt.Errorf("warm categories %s: %w", locale, err))
		}
	}
	if _, _, err := s.GetAuthors(ctx, false); err != nil {
		errs = append(errs, fmt.Errorf("warm authors: %w", err))
	}
	if _, _, err := s.GetFeaturedArticles(ctx, 4, false); err != nil {
		errs = append(errs, fmt.Errorf("warm featured articles: %w", err))
	}
	if _, err := s.GetArticles(ctx, ArticleQuery{Page: 1}); err != nil {
		errs = append(errs, fmt.Errorf("warm first article page: %w", err))
	}

	if len(errs) > 0 {
		for _, err := range errs {
			logger.WithError(err).Msg("Cache warm-up step failed")
		}
		return fmt.Errorf("cache refresh completed with %d failed warm-up steps, first: %w", len(errs), errs[0])
	}

	logger.Info().Int("entries", s.cache.Len()).Msg("Cache refreshed")
	return nil
}

// HealthCheck performs one minimal upstream call. It never touches the
// cache, so it reflects the upstream's current reachability.
func (s *Service) HealthCheck(ctx context.Context) error {
	_, _, err := s.adapter.ListArticles(ctx, cms.ListParams{Page: 1, PageSize: 1})
	return err
}

// CacheSize reports the current number of cache entries.
func (s *Service) CacheSize() int {
	return s.cache.Len()
}

// cacheKey derives a deterministic key from the operation name and its
// serialized parameters.
func cacheKey(op string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Param structs are plain value types; marshal cannot fail for
		// them, but a stable degenerate key keeps the cache correct.
		data = []byte(fmt.Sprintf("%+v", params))
	}
	return op + ":" + utils.Hash(string(data))
}
