package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLocalizedTextForLocale(t *testing.T) {
	text := LocalizedText{"tr": "Merhaba", "en": "Hello"}

	if v, ok := text.ForLocale("en", "tr"); !ok || v != "Hello" {
		t.Errorf("Expected requested-locale value 'Hello', got %q (ok=%v)", v, ok)
	}

	if v, ok := text.ForLocale("de", "tr"); !ok || v != "Merhaba" {
		t.Errorf("Expected fallback value 'Merhaba', got %q (ok=%v)", v, ok)
	}

	empty := LocalizedText{"en": ""}
	if _, ok := empty.ForLocale("en", "tr"); ok {
		t.Error("Empty-string value must not count as a usable localization")
	}
}

func TestArticleIsPublished(t *testing.T) {
	article := Article{ID: "1", Slug: "test"}
	if article.IsPublished() {
		t.Error("Article without publish timestamp must not report published")
	}

	now := time.Now()
	article.PublishedAt = &now
	if !article.IsPublished() {
		t.Error("Article with publish timestamp must report published")
	}
}

func TestArticleJSONShape(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	article := Article{
		ID:          "1",
		Slug:        "cloud-servers",
		Title:       LocalizedText{"en": "Cloud servers"},
		Author:      &AuthorRef{ID: "7", Name: "Ayse Demir"},
		PublishedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data, err := json.Marshal(article)
	if err != nil {
		t.Fatalf("Failed to marshal Article: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	if result["slug"] != "cloud-servers" {
		t.Errorf("Expected slug field to be 'cloud-servers', got %v", result["slug"])
	}
	if result["published_at"] == nil {
		t.Error("Expected published_at to be present")
	}
	if _, ok := result["seo_title"]; ok {
		t.Error("Empty seo_title should be omitted")
	}
}
