package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bilgisen/content-gateway/internal/config"
	"github.com/bilgisen/content-gateway/internal/models"
	"github.com/go-resty/resty/v2"
)

// articlePopulate names the relations expanded on every article read.
var articlePopulate = []string{"author", "category", "localizations"}

// Client talks to the upstream CMS. It is stateless: pure request/response
// mapping, no caching, and no retries — retry policy belongs to callers.
type Client struct {
	http          *resty.Client
	defaultLocale string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.CMSBaseURL, "/")).
			SetTimeout(cfg.HTTPTimeout).
			SetAuthToken(cfg.CMSAPIToken).
			SetHeader("Accept", "application/json"),
		defaultLocale: cfg.DefaultLocale,
	}
}

// ListArticles returns one page of articles in upstream order. Entities
// missing an id or slug are dropped rather than surfaced malformed.
func (c *Client) ListArticles(ctx context.Context, params ListParams) ([]models.Article, models.Pagination, error) {
	if len(params.Populate) == 0 {
		params.Populate = articlePopulate
	}

	var out articleListResponse
	if err := c.get(ctx, "/api/articles", params.query(), &out); err != nil {
		return nil, models.Pagination{}, err
	}

	return mapArticles(out.Data, c.defaultLocale), mapPagination(out.Meta.Pagination), nil
}

// GetArticleBySlug looks up an article by its localized slug. Slugs live in
// a per-locale side table, so the filter matches both the base slug and the
// localizations relation.
func (c *Client) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	params := ListParams{
		Page:     1,
		PageSize: 1,
		Filters: []Filter{
			Or(
				Eq(slug, "slug"),
				Eq(slug, "localizations", "slug"),
			),
		},
		Populate: articlePopulate,
	}

	var out articleListResponse
	if err := c.get(ctx, "/api/articles", params.query(), &out); err != nil {
		return nil, err
	}
	for _, e := range out.Data {
		if art, ok := mapArticle(e, c.defaultLocale); ok {
			return &art, nil
		}
	}
	return nil, &NotFoundError{Resource: "article", Key: slug}
}

// GetArticleByID fetches a single article. A 404 surfaces as NotFoundError
// so callers can render an absent result; any other non-2xx response is a
// TransportError.
func (c *Client) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	q := url.Values{}
	for i, rel := range articlePopulate {
		q.Set(fmt.Sprintf("populate[%d]", i), rel)
	}

	var out articleResponse
	if err := c.get(ctx, "/api/articles/"+url.PathEscape(id), q, &out); err != nil {
		var transport *TransportError
		if errors.As(err, &transport) && transport.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Resource: "article", Key: id}
		}
		return nil, err
	}
	if out.Data == nil {
		return nil, &NotFoundError{Resource: "article", Key: id}
	}
	art, ok := mapArticle(*out.Data, c.defaultLocale)
	if !ok {
		return nil, &NotFoundError{Resource: "article", Key: id}
	}
	return &art, nil
}

// ListCategories returns the categories with bilingual display bundles for
// the requested locale, reconciled against the default-locale set.
func (c *Client) ListCategories(ctx context.Context, locale string) ([]models.Category, error) {
	if locale == "" {
		locale = c.defaultLocale
	}

	primary, err := c.fetchCategories(ctx, locale)
	if err != nil {
		return nil, err
	}

	var fallback []categoryEntity
	if locale != c.defaultLocale {
		fallback, err = c.fetchCategories(ctx, c.defaultLocale)
		if err != nil {
			return nil, err
		}
	}

	return reconcileCategories(primary, fallback, locale, c.defaultLocale), nil
}

func (c *Client) fetchCategories(ctx context.Context, locale string) ([]categoryEntity, error) {
	params := ListParams{
		Page:     1,
		PageSize: maxPageSize,
		Sort:     "name:asc",
		Locale:   locale,
		Populate: []string{"localizations"},
	}

	var out categoryListResponse
	if err := c.get(ctx, "/api/categories", params.query(), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ListAuthors(ctx context.Context) ([]models.Author, error) {
	params := ListParams{Page: 1, PageSize: maxPageSize, Sort: "name:asc"}

	var out authorListResponse
	if err := c.get(ctx, "/api/authors", params.query(), &out); err != nil {
		return nil, err
	}

	authors := make([]models.Author, 0, len(out.Data))
	for _, e := range out.Data {
		authors = append(authors, mapAuthor(e))
	}
	return authors, nil
}

// SetPublishedAt writes or clears the article's publish timestamp. This is
// the only upstream mutation in the system; everything else is read-only.
func (c *Client) SetPublishedAt(ctx context.Context, id string, publishedAt *time.Time) error {
	body := map[string]any{
		"data": map[string]any{
			"publishedAt": publishedAt,
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put("/api/articles/" + url.PathEscape(id))
	if err != nil {
		return &TransportError{Err: err}
	}
	if resp.StatusCode() == http.StatusNotFound {
		return &NotFoundError{Resource: "article", Key: id}
	}
	if resp.IsError() {
		return &TransportError{StatusCode: resp.StatusCode()}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(path)
	if err != nil {
		return &TransportError{Err: err}
	}
	if resp.IsError() {
		return &TransportError{StatusCode: resp.StatusCode()}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse cms response from %s: %w", path, err)
	}
	return nil
}
