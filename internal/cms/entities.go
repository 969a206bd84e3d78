package cms

import (
	"encoding/json"
	"time"
)

// Upstream response envelopes. The CMS wraps every entity in
// {id, attributes} and every relation in a {data} shell; list responses
// carry a meta.pagination block.

type meta struct {
	Pagination paginationMeta `json:"pagination"`
}

type paginationMeta struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

type articleListResponse struct {
	Data []articleEntity `json:"data"`
	Meta meta            `json:"meta"`
}

type articleResponse struct {
	Data *articleEntity `json:"data"`
}

type articleEntity struct {
	ID         json.Number       `json:"id"`
	Attributes articleAttributes `json:"attributes"`
}

type articleAttributes struct {
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Excerpt        string     `json:"excerpt"`
	Content        string     `json:"content"`
	SeoTitle       string     `json:"seoTitle"`
	SeoDescription string     `json:"seoDescription"`
	Locale         string     `json:"locale"`
	Tags           []string   `json:"tags"`
	Featured       bool       `json:"featured"`
	PublishedAt    *time.Time `json:"publishedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	Author        *authorRelation      `json:"author"`
	Category      *categoryRelation    `json:"category"`
	Localizations *articleRelationList `json:"localizations"`
}

type articleRelationList struct {
	Data []articleEntity `json:"data"`
}

type authorRelation struct {
	Data *authorEntity `json:"data"`
}

type authorListResponse struct {
	Data []authorEntity `json:"data"`
	Meta meta           `json:"meta"`
}

type authorEntity struct {
	ID         json.Number      `json:"id"`
	Attributes authorAttributes `json:"attributes"`
}

type authorAttributes struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

type categoryRelation struct {
	Data *categoryEntity `json:"data"`
}

type categoryListResponse struct {
	Data []categoryEntity `json:"data"`
	Meta meta             `json:"meta"`
}

type categoryEntity struct {
	ID         json.Number        `json:"id"`
	Attributes categoryAttributes `json:"attributes"`
}

type categoryAttributes struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	Locale        string `json:"locale"`
	Localizations *struct {
		Data []categoryEntity `json:"data"`
	} `json:"localizations"`
}
