package service

import (
	"strings"
)

// ListParams narrows a list operation. Limit <= 0 returns every match and a
// Page below one is treated as the first page.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) page() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

func (p ListParams) needle() string {
	return strings.ToLower(strings.TrimSpace(p.Search))
}

// listResult filters items by params.Search and slices out the requested
// page. Metadata.Total counts every match, not just the page.
func listResult[T any](items []T, params ListParams, match func(item T, needle string) bool) Result[[]T] {
	filtered := items
	if needle := params.needle(); needle != "" {
		filtered = make([]T, 0, len(items))
		for _, item := range items {
			if match(item, needle) {
				filtered = append(filtered, item)
			}
		}
	}

	page := params.page()
	data := filtered
	if params.Limit > 0 {
		// Compare page numbers before multiplying so huge values cannot wrap.
		pages := len(filtered) / params.Limit
		if len(filtered)%params.Limit != 0 {
			pages++
		}
		if page > pages {
			data = []T{}
		} else {
			start := (page - 1) * params.Limit
			data = filtered[start : start+min(params.Limit, len(filtered)-start)]
		}
	} else {
		page = 1
	}
	if data == nil {
		data = []T{}
	}

	result := succeed(data)
	result.Metadata = &Metadata{Total: len(filtered), Page: page}
	return result
}

func containsFold(needle string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
