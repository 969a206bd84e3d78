package models

// Category is a reference entity owned by the upstream CMS. Name carries the
// bilingual display bundle produced by locale reconciliation; a category is
// dropped during mapping rather than surfaced with empty names.
type Category struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description,omitempty"`
}
