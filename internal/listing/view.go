package listing

// View is the stateful form of the pipeline, one per mounted list screen.
// Changing the search term or the filter set moves back to page one; the
// view mode never affects the rows. A View is not safe for concurrent use.
type View[T any] struct {
	cfg     Config[T]
	source  []T
	term    string
	filters []string
	page    int
	mode    ViewMode
	current []T
}

func NewView[T any](cfg Config[T], items []T) *View[T] {
	v := &View[T]{cfg: cfg, source: items, page: 1, mode: ViewGrid}
	v.recompute()
	return v
}

func (v *View[T]) recompute() {
	v.current = Filter(Search(v.source, v.cfg.SearchFields, v.term), v.cfg.Categories, v.filters)
	v.page = ClampPage(v.page, len(v.current), v.cfg.pageSize())
}

func (v *View[T]) SetSearch(term string) {
	v.term = term
	v.page = 1
	v.recompute()
}

func (v *View[T]) SetFilters(names ...string) {
	v.filters = normalizeFilters(names)
	v.page = 1
	v.recompute()
}

// Reload swaps in a freshly fetched collection, keeping search, filters and
// the current page when it still exists.
func (v *View[T]) Reload(items []T) {
	v.source = items
	v.recompute()
}

func (v *View[T]) SetPage(page int) {
	v.page = ClampPage(page, len(v.current), v.cfg.pageSize())
}

func (v *View[T]) Next() {
	v.SetPage(v.page + 1)
}

func (v *View[T]) Prev() {
	v.SetPage(v.page - 1)
}

func (v *View[T]) HasNext() bool {
	return v.page < v.TotalPages()
}

func (v *View[T]) HasPrev() bool {
	return v.page > 1
}

func (v *View[T]) TotalPages() int {
	return TotalPages(len(v.current), v.cfg.pageSize())
}

func (v *View[T]) Filtered() []T {
	return v.current
}

func (v *View[T]) Mode() ViewMode {
	return v.mode
}

func (v *View[T]) SetMode(mode ViewMode) {
	v.mode = mode
}

func (v *View[T]) ToggleMode() {
	v.mode = v.mode.Toggle()
}

func (v *View[T]) Page() Page[T] {
	p := Paginate(v.current, v.page, v.cfg.pageSize(), v.mode)
	p.Term = v.term
	p.Filters = v.filters
	return p
}
