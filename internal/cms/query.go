package cms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filter is one node of the upstream filter grammar. Leaf nodes address a
// field path with an operator ($eq, $null, $notNull, $containsi); an $or
// node combines its children.
type Filter struct {
	path     []string
	op       string
	value    string
	children []Filter
}

// Eq matches a field path for equality.
func Eq(value string, path ...string) Filter {
	return Filter{path: path, op: "$eq", value: value}
}

// Null matches records where the field is null.
func Null(path ...string) Filter {
	return Filter{path: path, op: "$null", value: "true"}
}

// NotNull matches records where the field is set.
func NotNull(path ...string) Filter {
	return Filter{path: path, op: "$notNull", value: "true"}
}

// ContainsI matches records whose field contains the value, case-insensitive.
func ContainsI(value string, path ...string) Filter {
	return Filter{path: path, op: "$containsi", value: value}
}

// Or combines filters disjunctively.
func Or(filters ...Filter) Filter {
	return Filter{op: "$or", children: filters}
}

// encode writes the filter into q using the upstream bracket syntax,
// e.g. filters[category][slug][$eq]=news or filters[$or][0][slug][$eq]=x.
func (f Filter) encode(q url.Values, prefix string) {
	if f.op == "$or" {
		for i, child := range f.children {
			child.encode(q, fmt.Sprintf("%s[$or][%d]", prefix, i))
		}
		return
	}
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range f.path {
		b.WriteString("[" + p + "]")
	}
	b.WriteString("[" + f.op + "]")
	q.Add(b.String(), f.value)
}

// ListParams describes one paginated list request against the upstream CMS.
type ListParams struct {
	Page     int
	PageSize int
	Sort     string // "field:asc" or "field:desc"
	Locale   string
	Filters  []Filter
	Populate []string
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// query renders the params into upstream query parameters, clamping the
// page size to the upstream limit.
func (p ListParams) query() url.Values {
	q := url.Values{}

	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	switch {
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	case pageSize <= 0:
		pageSize = defaultPageSize
	}
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(pageSize))

	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Locale != "" {
		q.Set("locale", p.Locale)
	}
	for i, rel := range p.Populate {
		q.Set(fmt.Sprintf("populate[%d]", i), rel)
	}
	for _, f := range p.Filters {
		f.encode(q, "filters")
	}
	return q
}
