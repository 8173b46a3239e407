package table

import (
	"fmt"
	"strings"
)

// DefaultPageSize applies when the caller does not choose one.
const DefaultPageSize = 10

// Column describes one table column for row type T. Value extracts the field
// behind Key; Render, when set, turns that value plus the full row into
// display text. Renderers must not mutate the row.
type Column[T any] struct {
	Key    string
	Label  string
	Value  func(row T) any
	Render func(value any, row T) string
}

// Cell is a rendered value addressed by its column key.
type Cell struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Row is one rendered table row.
type Row struct {
	Cells []Cell `json:"cells"`
}

// View is the derived, ephemeral result of filtering, paginating, and
// rendering the source collection. It is recomputed on demand and never
// stored.
type View[T any] struct {
	Loading       bool   `json:"loading"`
	NoResults     bool   `json:"noResults"`
	SearchTerm    string `json:"searchTerm,omitempty"`
	PageIndex     int    `json:"pageIndex"`
	PageCount     int    `json:"pageCount"`
	TotalFiltered int    `json:"totalFiltered"`
	HasNext       bool   `json:"hasNextPage"`
	HasPrevious   bool   `json:"hasPreviousPage"`
	Rows          []Row  `json:"rows"`

	// Records holds the raw rows behind the rendered page, in page order.
	Records []T `json:"-"`
}

// Engine provides client-side search filtering and pagination over an
// arbitrary record collection with per-column rendering. It never mutates
// the records or the column descriptors it is given.
type Engine[T any] struct {
	columns   []Column[T]
	searchKey func(row T) any
	pageSize  int

	records []T
	term    string
	page    int
	loading bool
}

// Option configures an Engine.
type Option[T any] func(*Engine[T])

// WithSearchKey enables filtering on the stringified value of one field.
func WithSearchKey[T any](key func(row T) any) Option[T] {
	return func(e *Engine[T]) {
		e.searchKey = key
	}
}

// WithPageSize overrides the default page size.
func WithPageSize[T any](size int) Option[T] {
	return func(e *Engine[T]) {
		if size > 0 {
			e.pageSize = size
		}
	}
}

// NewEngine builds an Engine over the given column descriptors.
func NewEngine[T any](columns []Column[T], opts ...Option[T]) *Engine[T] {
	e := &Engine[T]{
		columns:  columns,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetRecords replaces the source collection. The current page is kept; only
// a search term change resets it.
func (e *Engine[T]) SetRecords(records []T) {
	e.records = records
}

// SetLoading toggles the placeholder state. While loading, the view carries
// no rows regardless of what the possibly stale source collection contains.
func (e *Engine[T]) SetLoading(loading bool) {
	e.loading = loading
}

// Search applies a filter term. Any change of term snaps back to the first
// page so the view can never sit on an out-of-range page after narrowing.
func (e *Engine[T]) Search(term string) {
	if term != e.term {
		e.page = 0
	}
	e.term = term
}

// SetPage jumps to a page index. Negative values clamp to the first page;
// indexes beyond the last page yield an empty page, not an error.
func (e *Engine[T]) SetPage(index int) {
	if index < 0 {
		index = 0
	}
	e.page = index
}

// NextPage advances one page when one exists.
func (e *Engine[T]) NextPage() {
	if e.View().HasNext {
		e.page++
	}
}

// PreviousPage steps one page back when possible.
func (e *Engine[T]) PreviousPage() {
	if e.page > 0 {
		e.page--
	}
}

// Columns exposes the header labels in declaration order.
func (e *Engine[T]) Columns() []Column[T] {
	return e.columns
}

// View computes the filtered, paginated, rendered slice for the current
// state.
func (e *Engine[T]) View() View[T] {
	v := View[T]{
		Loading:    e.loading,
		SearchTerm: e.term,
		PageIndex:  e.page,
	}
	if e.loading {
		return v
	}

	filtered := e.filter()
	v.TotalFiltered = len(filtered)
	v.PageCount = (len(filtered) + e.pageSize - 1) / e.pageSize
	v.NoResults = len(filtered) == 0

	start := e.page * e.pageSize
	end := start + e.pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	v.Records = filtered[start:end]
	v.HasNext = end < len(filtered)
	v.HasPrevious = e.page > 0

	v.Rows = make([]Row, 0, len(v.Records))
	for _, rec := range v.Records {
		cells := make([]Cell, 0, len(e.columns))
		for _, col := range e.columns {
			var value any
			if col.Value != nil {
				value = col.Value(rec)
			}
			text := ""
			if col.Render != nil {
				text = col.Render(value, rec)
			} else {
				text = display(value)
			}
			cells = append(cells, Cell{Key: col.Key, Value: text})
		}
		v.Rows = append(v.Rows, Row{Cells: cells})
	}

	return v
}

func (e *Engine[T]) filter() []T {
	if e.searchKey == nil || strings.TrimSpace(e.term) == "" {
		return e.records
	}

	needle := strings.ToLower(e.term)
	filtered := make([]T, 0, len(e.records))
	for _, rec := range e.records {
		haystack := strings.ToLower(display(e.searchKey(rec)))
		if strings.Contains(haystack, needle) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func display(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
