package cms

import (
	"github.com/bilgisen/content-gateway/internal/logger"
	"github.com/bilgisen/content-gateway/internal/models"
)

func mapPagination(m paginationMeta) models.Pagination {
	return models.Pagination{
		Page:      m.Page,
		PageSize:  m.PageSize,
		PageCount: m.PageCount,
		Total:     m.Total,
	}
}

// mapArticle flattens an upstream article entity into the internal model.
// Entities without an id or slug are malformed and reported as unmappable;
// the caller drops them instead of surfacing broken records.
func mapArticle(e articleEntity, defaultLocale string) (models.Article, bool) {
	id := e.ID.String()
	attrs := e.Attributes
	if id == "" || id == "0" || attrs.Slug == "" {
		return models.Article{}, false
	}

	locale := attrs.Locale
	if locale == "" {
		locale = defaultLocale
	}

	title := models.LocalizedText{}
	excerpt := models.LocalizedText{}
	content := models.LocalizedText{}
	setText(title, locale, attrs.Title)
	setText(excerpt, locale, attrs.Excerpt)
	setText(content, locale, attrs.Content)

	// Merge the other-locale variants from the localizations relation.
	if attrs.Localizations != nil {
		for _, le := range attrs.Localizations.Data {
			lloc := le.Attributes.Locale
			if lloc == "" || lloc == locale {
				continue
			}
			setText(title, lloc, le.Attributes.Title)
			setText(excerpt, lloc, le.Attributes.Excerpt)
			setText(content, lloc, le.Attributes.Content)
		}
	}

	art := models.Article{
		ID:          id,
		Slug:        attrs.Slug,
		Title:       title,
		Excerpt:     excerpt,
		Content:     content,
		SeoTitle:    attrs.SeoTitle,
		SeoDesc:     attrs.SeoDescription,
		Tags:        attrs.Tags,
		Featured:    attrs.Featured,
		PublishedAt: attrs.PublishedAt,
		CreatedAt:   attrs.CreatedAt,
		UpdatedAt:   attrs.UpdatedAt,
	}

	if attrs.Author != nil && attrs.Author.Data != nil {
		a := attrs.Author.Data
		art.Author = &models.AuthorRef{
			ID:   a.ID.String(),
			Name: a.Attributes.Name,
			Slug: a.Attributes.Slug,
		}
	}
	if attrs.Category != nil && attrs.Category.Data != nil {
		c := attrs.Category.Data
		art.Category = &models.CategoryRef{
			ID:   c.ID.String(),
			Name: c.Attributes.Name,
			Slug: c.Attributes.Slug,
		}
	}

	return art, true
}

func mapArticles(entities []articleEntity, defaultLocale string) []models.Article {
	articles := make([]models.Article, 0, len(entities))
	for _, e := range entities {
		art, ok := mapArticle(e, defaultLocale)
		if !ok {
			logger.Warn().
				Str("id", e.ID.String()).
				Str("slug", e.Attributes.Slug).
				Msg("Dropping malformed article from upstream response")
			continue
		}
		articles = append(articles, art)
	}
	return articles
}

func mapAuthor(e authorEntity) models.Author {
	return models.Author{
		ID:     e.ID.String(),
		Name:   e.Attributes.Name,
		Slug:   e.Attributes.Slug,
		Bio:    e.Attributes.Bio,
		Avatar: e.Attributes.Avatar,
	}
}

// reconcileCategories merges the requested-locale category set with its
// default-locale counterpart into bilingual display bundles. A category is
// kept only when it has usable text in the requested locale or the default
// locale; default-locale records with no localization for the requested
// locale are dropped with a warning rather than surfaced half-translated.
func reconcileCategories(primary, fallback []categoryEntity, locale, defaultLocale string) []models.Category {
	fallbackByID := make(map[string]categoryEntity, len(fallback))
	for _, e := range fallback {
		fallbackByID[e.ID.String()] = e
	}

	linked := make(map[string]bool)
	categories := make([]models.Category, 0, len(primary))

	for _, e := range primary {
		id := e.ID.String()
		attrs := e.Attributes
		if id == "" || attrs.Slug == "" {
			logger.Warn().
				Str("id", id).
				Msg("Dropping malformed category from upstream response")
			continue
		}

		name := models.LocalizedText{}
		desc := models.LocalizedText{}
		setText(name, locale, attrs.Name)
		setText(desc, locale, attrs.Description)

		// Look up the default-locale counterpart through the localizations
		// relation, preferring the entity from the fallback fetch.
		if attrs.Localizations != nil {
			for _, le := range attrs.Localizations.Data {
				counterpart := le
				if fe, ok := fallbackByID[le.ID.String()]; ok {
					counterpart = fe
					linked[le.ID.String()] = true
				}
				if counterpart.Attributes.Locale != defaultLocale {
					continue
				}
				setText(name, defaultLocale, counterpart.Attributes.Name)
				setText(desc, defaultLocale, counterpart.Attributes.Description)
			}
		}

		if _, ok := name.ForLocale(locale, defaultLocale); !ok {
			logger.Warn().
				Str("id", id).
				Str("slug", attrs.Slug).
				Str("locale", locale).
				Msg("Dropping category with no usable localized name")
			continue
		}

		categories = append(categories, models.Category{
			ID:          id,
			Slug:        attrs.Slug,
			Name:        name,
			Description: desc,
		})
	}

	for _, e := range fallback {
		if linked[e.ID.String()] {
			continue
		}
		logger.Warn().
			Str("id", e.ID.String()).
			Str("slug", e.Attributes.Slug).
			Str("locale", locale).
			Msg("Category has no localization entry for requested locale, dropping")
	}

	return categories
}

func setText(t models.LocalizedText, locale, value string) {
	if value != "" {
		t[locale] = value
	}
}
