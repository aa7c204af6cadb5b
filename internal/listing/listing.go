// Package listing implements the search, filter and pagination pipeline shared
// by every back-office list screen.
//
// A collection is fetched once, then narrowed by a case-insensitive substring
// search over configured fields, narrowed again by an OR of the selected filter
// categories, and finally cut into fixed-size pages. No stage mutates or
// reorders the source collection.
package listing

import (
	"sort"
	"strings"
)

const DefaultPageSize = 10

type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// ParseViewMode falls back to grid for anything it does not recognize.
func ParseViewMode(s string) ViewMode {
	if ViewMode(strings.ToLower(s)) == ViewList {
		return ViewList
	}
	return ViewGrid
}

// Toggle flips between grid and list.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewList {
		return ViewGrid
	}
	return ViewList
}

// Field extracts one searchable string from a record.
type Field[T any] func(T) string

// Category reports whether a record belongs to a named filter category.
type Category[T any] func(T) bool

type Config[T any] struct {
	SearchFields []Field[T]
	Categories   map[string]Category[T]
	PageSize     int
}

func (c Config[T]) pageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// CategoryNames lists the configured filter categories in a stable order.
func (c Config[T]) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Query struct {
	Term    string
	Filters []string
	Page    int
	Mode    ViewMode
}

type Page[T any] struct {
	Items      []T      `json:"items"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
	Total      int      `json:"total"`
	HasPrev    bool     `json:"hasPrev"`
	HasNext    bool     `json:"hasNext"`
	View       ViewMode `json:"view"`
	Term       string   `json:"term,omitempty"`
	Filters    []string `json:"filters,omitempty"`
}

// Search keeps the records where any search field contains term, ignoring
// case. An empty term returns items unchanged.
func Search[T any](items []T, fields []Field[T], term string) []T {
	if term == "" || len(fields) == 0 {
		return items
	}
	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Filter keeps the records matching at least one selected category. With no
// category selected it returns items unchanged. Unknown category names match
// nothing.
func Filter[T any](items []T, categories map[string]Category[T], selected []string) []T {
	if len(selected) == 0 {
		return items
	}
	preds := make([]Category[T], 0, len(selected))
	for _, name := range selected {
		if pred, ok := categories[name]; ok {
			preds = append(preds, pred)
		}
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, pred := range preds {
			if pred(item) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// TotalPages is ceil(count/pageSize), never less than one.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage bounds page to [1, TotalPages(count, pageSize)].
func ClampPage(page, count, pageSize int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(count, pageSize); page > last {
		return last
	}
	return page
}

// Paginate slices out the given page of items after clamping it.
func Paginate[T any](items []T, page, pageSize int, mode ViewMode) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if mode == "" {
		mode = ViewGrid
	}
	total := len(items)
	page = ClampPage(page, total, pageSize)
	last := TotalPages(total, pageSize)

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	pageItems := make([]T, 0, end-start)
	pageItems = append(pageItems, items[start:end]...)

	return Page[T]{
		Items:      pageItems,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: last,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < last,
		View:       mode,
	}
}

// Apply runs the whole pipeline for one request through a fresh View, so a
// request behaves like a screen that was given its search, filters, page and
// mode in that order.
func Apply[T any](cfg Config[T], items []T, q Query) Page[T] {
	v := NewView(cfg, items)
	v.SetSearch(q.Term)
	v.SetFilters(q.Filters...)
	v.SetPage(q.Page)
	v.SetMode(q.Mode)
	return v.Page()
}

// Signature identifies the search term and filter set of a query. Two queries
// with different signatures do not share page numbers.
func (q Query) Signature() string {
	return q.Term + "\x00" + strings.Join(normalizeFilters(q.Filters), ",")
}

func normalizeFilters(filters []string) []string {
	if len(filters) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(filters))
	out := make([]string, 0, len(filters))
	for _, f := range filters {
		for _, part := range strings.Split(f, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, dup := seen[part]; dup {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
