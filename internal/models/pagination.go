package models

// Pagination mirrors the upstream list-response metadata block.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	PageCount int `json:"page_count"`
	Total     int `json:"total"`
}
