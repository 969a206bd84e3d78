package content

import (
	"context"
	"testing"
	"time"

	"github.com/bilgisen/content-gateway/internal/cache"
	"github.com/bilgisen/content-gateway/internal/cms"
	"github.com/bilgisen/content-gateway/internal/config"
	"github.com/bilgisen/content-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	articles   []models.Article
	pagination models.Pagination
	article    *models.Article
	categories []models.Category
	authors    []models.Author
	err        error

	listCalls   int
	slugCalls   int
	idCalls     int
	catCalls    int
	authorCalls int

	lastParams cms.ListParams
}

func (f *fakeAdapter) ListArticles(ctx context.Context, params cms.ListParams) ([]models.Article, models.Pagination, error) {
	f.listCalls++
	f.lastParams = params
	return f.articles, f.pagination, f.err
}

func (f *fakeAdapter) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	f.slugCalls++
	return f.article, f.err
}

func (f *fakeAdapter) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	f.idCalls++
	return f.article, f.err
}

func (f *fakeAdapter) ListCategories(ctx context.Context, locale string) ([]models.Category, error) {
	f.catCalls++
	return f.categories, f.err
}

func (f *fakeAdapter) ListAuthors(ctx context.Context) ([]models.Author, error) {
	f.authorCalls++
	return f.authors, f.err
}

func testArticle(id string) models.Article {
	return models.Article{
		ID:   id,
		Slug: "article-" + id,
		Title: models.LocalizedText{
			"tr": "Baslik " + id,
		},
	}
}

func newTestService(adapter *fakeAdapter, articleTTL time.Duration) *Service {
	return NewService(adapter, cache.NewStore(), &config.Config{
		ArticleCacheTTL:  articleTTL,
		TaxonomyCacheTTL: time.Hour,
		DefaultLocale:    "tr",
		AltLocale:        "en",
	})
}

func TestGetArticlesReadThrough(t *testing.T) {
	adapter := &fakeAdapter{
		articles:   []models.Article{testArticle("1")},
		pagination: models.Pagination{Page: 1, PageSize: 20, PageCount: 1, Total: 1},
	}
	svc := newTestService(adapter, time.Minute)

	first, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1})
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, adapter.listCalls)

	second, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, adapter.listCalls, "cache hit must not call upstream")
	assert.Equal(t, first.Articles, second.Articles)
	assert.Equal(t, first.Pagination, second.Pagination)
}

func TestGetArticlesFiltersPublishedOnly(t *testing.T) {
	adapter := &fakeAdapter{}
	svc := newTestService(adapter, time.Minute)

	_, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1, Category: "tech", Tag: "cloud"})
	require.NoError(t, err)

	assert.Contains(t, adapter.lastParams.Filters, cms.NotNull("publishedAt"))
	assert.Contains(t, adapter.lastParams.Filters, cms.Eq("tech", "category", "slug"))
	assert.Contains(t, adapter.lastParams.Filters, cms.ContainsI("cloud", "tags"))
	assert.Equal(t, "publishedAt:desc", adapter.lastParams.Sort)
}

func TestGetArticlesFreshBypassesCache(t *testing.T) {
	adapter := &fakeAdapter{}
	svc := newTestService(adapter, time.Minute)

	_, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1, Fresh: true})
	require.NoError(t, err)
	res, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1, Fresh: true})
	require.NoError(t, err)

	assert.Equal(t, 2, adapter.listCalls)
	assert.False(t, res.FromCache)
}

func TestGetArticlesDistinctQueriesDistinctKeys(t *testing.T) {
	adapter := &fakeAdapter{}
	svc := newTestService(adapter, time.Minute)

	_, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1})
	require.NoError(t, err)
	_, err = svc.GetArticles(t.Context(), ArticleQuery{Page: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, adapter.listCalls)
}

func TestGetArticlesExpiredEntryRefetchesOnce(t *testing.T) {
	adapter := &fakeAdapter{}
	svc := newTestService(adapter, 15*time.Millisecond)

	_, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1})
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	res, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1})
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 2, adapter.listCalls, "expiry triggers exactly one fresh call")

	res, err = svc.GetArticles(t.Context(), ArticleQuery{Page: 1})
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, 2, adapter.listCalls)
}

func TestAdapterErrorsAreNotCached(t *testing.T) {
	adapter := &fakeAdapter{err: &cms.TransportError{StatusCode: 500}}
	svc := newTestService(adapter, time.Minute)

	_, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1})
	require.Error(t, err)

	adapter.err = nil
	res, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1})
	require.NoError(t, err)
	assert.False(t, res.FromCache, "a failed fetch must not leave a cache entry")
	assert.Equal(t, 2, adapter.listCalls)
}

func TestGetArticleBySlugReadThrough(t *testing.T) {
	art := testArticle("5")
	adapter := &fakeAdapter{article: &art}
	svc := newTestService(adapter, time.Minute)

	got, fromCache, err := svc.GetArticleBySlug(t.Context(), "article-5", false)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "5", got.ID)

	got, fromCache, err = svc.GetArticleBySlug(t.Context(), "article-5", false)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, "5", got.ID)
	assert.Equal(t, 1, adapter.slugCalls)
}

func TestGetArticleBySlugNotFoundPropagates(t *testing.T) {
	adapter := &fakeAdapter{err: &cms.NotFoundError{Resource: "article", Key: "x"}}
	svc := newTestService(adapter, time.Minute)

	_, _, err := svc.GetArticleBySlug(t.Context(), "x", false)
	var notFound *cms.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// The miss was not cached: the next call reaches the adapter again.
	_, _, err = svc.GetArticleBySlug(t.Context(), "x", false)
	require.Error(t, err)
	assert.Equal(t, 2, adapter.slugCalls)
}

func TestGetFeaturedArticlesFilters(t *testing.T) {
	adapter := &fakeAdapter{articles: []models.Article{testArticle("9")}}
	svc := newTestService(adapter, time.Minute)

	articles, fromCache, err := svc.GetFeaturedArticles(t.Context(), 3, false)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Len(t, articles, 1)
	assert.Equal(t, 3, adapter.lastParams.PageSize)
	assert.Contains(t, adapter.lastParams.Filters, cms.Eq("true", "featured"))
	assert.Contains(t, adapter.lastParams.Filters, cms.NotNull("publishedAt"))
}

func TestGetCategoriesUsesTaxonomyTTL(t *testing.T) {
	adapter := &fakeAdapter{categories: []models.Category{{ID: "1", Slug: "tech"}}}
	svc := newTestService(adapter, time.Millisecond)

	_, _, err := svc.GetCategories(t.Context(), "en", false)
	require.NoError(t, err)

	// Far past the article TTL, taxonomy entries are still fresh.
	time.Sleep(10 * time.Millisecond)

	_, fromCache, err := svc.GetCategories(t.Context(), "en", false)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, 1, adapter.catCalls)
}

func TestSearchArticlesCachesPerQuery(t *testing.T) {
	adapter := &fakeAdapter{}
	svc := newTestService(adapter, time.Minute)

	_, err := svc.SearchArticles(t.Context(), "cloud", ArticleQuery{Page: 1})
	require.NoError(t, err)
	res, err := svc.SearchArticles(t.Context(), "cloud", ArticleQuery{Page: 1})
	require.NoError(t, err)
	assert.True(t, res.FromCache)

	_, err = svc.SearchArticles(t.Context(), "vps", ArticleQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, adapter.listCalls)
}

func TestRefreshCacheWarmsHighTrafficKeys(t *testing.T) {
	adapter := &fakeAdapter{
		articles:   []models.Article{testArticle("1")},
		categories: []models.Category{{ID: "1", Slug: "tech"}},
		authors:    []models.Author{{ID: "7", Name: "Ayse Demir"}},
	}
	svc := newTestService(adapter, time.Minute)

	require.NoError(t, svc.RefreshCache(t.Context()))
	callsAfterRefresh := adapter.listCalls + adapter.catCalls + adapter.authorCalls

	_, fromCache, err := svc.GetCategories(t.Context(), "tr", false)
	require.NoError(t, err)
	assert.True(t, fromCache)

	_, fromCache, err = svc.GetAuthors(t.Context(), false)
	require.NoError(t, err)
	assert.True(t, fromCache)

	_, fromCache, err = svc.GetFeaturedArticles(t.Context(), 4, false)
	require.NoError(t, err)
	assert.True(t, fromCache)

	list, err := svc.GetArticles(t.Context(), ArticleQuery{Page: 1})
	require.NoError(t, err)
	assert.True(t, list.FromCache)

	assert.Equal(t, callsAfterRefresh, adapter.listCalls+adapter.catCalls+adapter.authorCalls,
		"warmed reads must not call upstream again")
}

func TestHealthCheckBypassesCache(t *testing.T) {
	adapter := &fakeAdapter{}
	store := cache.NewStore()
	svc := NewService(adapter, store, &config.Config{
		ArticleCacheTTL:  time.Minute,
		TaxonomyCacheTTL: time.Hour,
		DefaultLocale:    "tr",
	})

	require.NoError(t, svc.HealthCheck(t.Context()))
	assert.Equal(t, 1, adapter.listCalls)
	assert.Equal(t, 0, store.Len(), "health check must not populate the cache")

	adapter.err = &cms.TransportError{StatusCode: 503}
	assert.Error(t, svc.HealthCheck(t.Context()))
}
