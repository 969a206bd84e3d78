package models

import "time"

// LocalizedText bundles the per-locale variants of a text field.
// A missing locale key means the field is untranslated for that locale.
type LocalizedText map[string]string

// ForLocale returns the text for the requested locale, falling back to the
// given default locale. The boolean reports whether any non-empty value was
// found; callers must drop items rather than render empty required fields.
func (t LocalizedText) ForLocale(locale, fallback string) (string, bool) {
	if v, ok := t[locale]; ok && v != "" {
		return v, true
	}
	if v, ok := t[fallback]; ok && v != "" {
		return v, true
	}
	return "", false
}

// Article is the flat internal representation of an upstream CMS article.
// The upstream service owns the record; this side only reads and, through
// the approval flow, toggles PublishedAt.
type Article struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       LocalizedText `json:"title"`
	Excerpt     LocalizedText `json:"excerpt"`
	Content     LocalizedText `json:"content"`
	SeoTitle    string        `json:"seo_title,omitempty"`
	SeoDesc     string        `json:"seo_description,omitempty"`
	Author      *AuthorRef    `json:"author,omitempty"`
	Category    *CategoryRef  `json:"category,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Featured    bool          `json:"featured"`
	PublishedAt *time.Time    `json:"published_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsPublished reports the upstream visibility signal: a non-null publish
// timestamp. Richer editorial states are derived on top of this by the
// approval service.
func (a *Article) IsPublished() bool {
	return a.PublishedAt != nil
}

// AuthorRef is a weak reference to an Author with cached display fields.
type AuthorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// CategoryRef is a weak reference to a Category with cached display fields.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}
