// pkg/query/pagination.go
package query

// Pager coordinates the 0-based current page and rows-per-page against the
// server-authoritative total count. Out-of-range pages self-heal by
// clamping; boundary navigation is a no-op rather than an error.
type Pager struct {
	page        int
	rowsPerPage int
	totalCount  int
}

// DefaultRowsPerPage is used when a caller supplies a non-positive size
const DefaultRowsPerPage = 25

// NewPager creates a pager starting at page 0
func NewPager(rowsPerPage int) *Pager {
	if rowsPerPage <= 0 {
		rowsPerPage = DefaultRowsPerPage
	}
	return &Pager{rowsPerPage: rowsPerPage}
}

// Page returns the current 0-based page index
func (p *Pager) Page() int {
	return p.page
}

// RowsPerPage returns the current page size
func (p *Pager) RowsPerPage() int {
	return p.rowsPerPage
}

// TotalCount returns the last known server row count
func (p *Pager) TotalCount() int {
	return p.totalCount
}

// TotalPages returns ceil(totalCount / rowsPerPage)
func (p *Pager) TotalPages() int {
	if p.totalCount <= 0 {
		return 0
	}
	return (p.totalCount + p.rowsPerPage - 1) / p.rowsPerPage
}

// Offset returns the row offset of the current page
func (p *Pager) Offset() int {
	return p.page * p.rowsPerPage
}

// SetTotalCount records a new total and clamps the current page into range
func (p *Pager) SetTotalCount(total int) {
	if total < 0 {
		total = 0
	}
	p.totalCount = total
	p.clamp()
}

// SetRowsPerPage changes the page size and clamps the current page
func (p *Pager) SetRowsPerPage(size int) {
	if size <= 0 {
		return
	}
	p.rowsPerPage = size
	p.clamp()
}

// SetPage moves to a specific page, clamped into the valid range
func (p *Pager) SetPage(page int) {
	p.page = page
	p.clamp()
}

// Next advances one page; no-op on the last page
func (p *Pager) Next() {
	if p.page < p.TotalPages()-1 {
		p.page++
	}
}

// Prev goes back one page; no-op on the first page
func (p *Pager) Prev() {
	if p.page > 0 {
		p.page--
	}
}

// Reset returns to the first page. Called on every filter/search change so
// filtering and position never disagree.
func (p *Pager) Reset() {
	p.page = 0
}

// clamp enforces 0 <= page < max(totalPages, 1)
func (p *Pager) clamp() {
	last := p.TotalPages() - 1
	if last < 0 {
		last = 0
	}
	if p.page > last {
		p.page = last
	}
	if p.page < 0 {
		p.page = 0
	}
}
