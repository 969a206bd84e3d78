package cms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListParamsQueryDefaults(t *testing.T) {
	q := ListParams{}.query()

	assert.Equal(t, "1", q.Get("pagination[page]"))
	assert.Equal(t, "20", q.Get("pagination[pageSize]"))
	assert.Empty(t, q.Get("sort"))
}

func TestListParamsQueryClampsPageSize(t *testing.T) {
	q := ListParams{Page: 3, PageSize: 500}.query()

	assert.Equal(t, "3", q.Get("pagination[page]"))
	assert.Equal(t, "100", q.Get("pagination[pageSize]"))
}

func TestListParamsQuerySortLocalePopulate(t *testing.T) {
	q := ListParams{
		Sort:     "publishedAt:desc",
		Locale:   "en",
		Populate: []string{"author", "category"},
	}.query()

	assert.Equal(t, "publishedAt:desc", q.Get("sort"))
	assert.Equal(t, "en", q.Get("locale"))
	assert.Equal(t, "author", q.Get("populate[0]"))
	assert.Equal(t, "category", q.Get("populate[1]"))
}

func TestFilterEncodeEq(t *testing.T) {
	q := url.Values{}
	Eq("news", "category", "slug").encode(q, "filters")

	assert.Equal(t, "news", q.Get("filters[category][slug][$eq]"))
}

func TestFilterEncodeNullAndNotNull(t *testing.T) {
	q := url.Values{}
	Null("publishedAt").encode(q, "filters")
	NotNull("updatedAt").encode(q, "filters")

	assert.Equal(t, "true", q.Get("filters[publishedAt][$null]"))
	assert.Equal(t, "true", q.Get("filters[updatedAt][$notNull]"))
}

func TestFilterEncodeContainsI(t *testing.T) {
	q := url.Values{}
	ContainsI("cloud", "title").encode(q, "filters")

	assert.Equal(t, "cloud", q.Get("filters[title][$containsi]"))
}

func TestFilterEncodeOrIndexesChildren(t *testing.T) {
	q := url.Values{}
	Or(
		Eq("my-slug", "slug"),
		Eq("my-slug", "localizations", "slug"),
	).encode(q, "filters")

	assert.Equal(t, "my-slug", q.Get("filters[$or][0][slug][$eq]"))
	assert.Equal(t, "my-slug", q.Get("filters[$or][1][localizations][slug][$eq]"))
}
