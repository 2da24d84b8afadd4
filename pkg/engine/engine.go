// pkg/engine/engine.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/tabkit/explorer/pkg/config"
	"github.com/tabkit/explorer/pkg/export"
	"github.com/tabkit/explorer/pkg/model"
	"github.com/tabkit/explorer/pkg/query"
	"github.com/tabkit/explorer/pkg/stats"
	"github.com/tabkit/explorer/pkg/store"
)

// Export formats and scopes
const (
	FormatCSV  = "csv"
	FormatJSON = "json"

	ScopePage      = "page"
	ScopeSelection = "selection"
)

// ErrFilterIndexOutOfRange signals removal of a nonexistent advanced filter
var ErrFilterIndexOutOfRange = errors.New("advanced filter index out of range")

// Explorer is the state container for one open dataset view. All filter,
// sort, layout, and selection mutations are synchronous in-memory
// operations over the currently loaded page; the only asynchronous
// boundary is the paged fetch from the backing store. The loaded page is
// replaced wholesale on each fetch so statistics, sorting, and selection
// never disagree about its contents.
type Explorer struct {
	mu     sync.Mutex
	logger *zap.Logger
	cfg    *config.EngineConfig

	store       store.PageFetcher
	statsEngine *stats.Engine
	negotiator  *query.Negotiator
	pager       *query.Pager

	dataset     model.Dataset
	headers     []string
	records     []model.Record
	columnStats map[string]model.ColumnStats

	search       string
	basicFilters map[string]string
	advanced     []model.AdvancedFilter
	sortSpec     model.SortSpec
	diagnostics  []query.Diagnostic

	layout         *Layout
	selection      *Selection
	views          *ViewStore
	searchDebounce *Debouncer

	lastErr error
}

// NewExplorer creates an explorer bound to a backing store
func NewExplorer(st store.PageFetcher, cfg *config.EngineConfig, logger *zap.Logger) *Explorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &config.EngineConfig{
			DefaultRowsPerPage: query.DefaultRowsPerPage,
			PrintRowLimit:      100,
		}
	}

	return &Explorer{
		logger:         logger.Named("explorer"),
		cfg:            cfg,
		store:          st,
		statsEngine:    stats.NewEngine(logger),
		negotiator:     query.NewNegotiator(logger),
		pager:          query.NewPager(cfg.DefaultRowsPerPage),
		columnStats:    make(map[string]model.ColumnStats),
		basicFilters:   make(map[string]string),
		layout:         NewLayout(),
		selection:      NewSelection(),
		views:          NewViewStore(logger),
		searchDebounce: NewDebouncer(cfg.SearchDebounce),
	}
}

// Open reads the dataset's metadata and loads its first page
func (e *Explorer) Open(ctx context.Context, datasetID string) error {
	md, err := e.store.Metadata(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("failed to read dataset metadata: %w", err)
	}

	e.mu.Lock()
	e.dataset = *md
	e.headers = append([]string(nil), md.Columns...)
	e.pager.SetTotalCount(md.TotalCount)
	e.mu.Unlock()

	e.logger.Info("Opened dataset",
		zap.String("datasetID", md.ID),
		zap.String("name", md.Name),
		zap.Int("declaredColumns", len(md.Columns)),
		zap.Int("totalRows", md.TotalCount))

	return e.Refresh(ctx)
}

// Refresh derives the current query and fetches its page. A response is
// applied only if the state that produced it is still current: if any
// mutation changed the derived query while the fetch was in flight, the
// result is discarded instead of clobbering newer state.
func (e *Explorer) Refresh(ctx context.Context) error {
	return e.refresh(ctx, true)
}

func (e *Explorer) refresh(ctx context.Context, allowFollowUp bool) error {
	e.mu.Lock()
	datasetID := e.dataset.ID
	q := e.deriveQueryLocked()
	key := q.Key()
	e.mu.Unlock()

	fetchCtx := ctx
	if e.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.cfg.FetchTimeout)
		defer cancel()
	}

	page, err := e.store.FetchPage(fetchCtx, datasetID, q)

	e.mu.Lock()
	currentKey := e.deriveQueryLocked().Key()
	if currentKey != key {
		e.mu.Unlock()
		e.logger.Debug("Discarding stale fetch result",
			zap.String("fetchedKey", key),
			zap.String("currentKey", currentKey))
		return nil
	}
	if err != nil {
		e.lastErr = err
		e.mu.Unlock()
		e.logger.Warn("Page fetch failed; keeping last loaded page", zap.Error(err))
		return fmt.Errorf("failed to fetch page: %w", err)
	}

	e.lastErr = nil
	e.applyPageLocked(page)
	// A shrunken result set can clamp the page below the offset just
	// fetched; one follow-up fetch realigns the loaded rows.
	followUp := e.pager.Offset() != q.Offset
	e.mu.Unlock()

	if followUp && allowFollowUp {
		return e.refresh(ctx, false)
	}
	return nil
}

// deriveQueryLocked negotiates the outbound query from current state and
// records the dropped-clause diagnostics
func (e *Explorer) deriveQueryLocked() model.FetchQuery {
	q, diags := e.negotiator.Negotiate(
		e.search, e.basicFilters, e.advanced,
		e.pager.RowsPerPage(), e.pager.Offset())
	e.diagnostics = diags
	return q
}

// applyPageLocked replaces the loaded page wholesale and recomputes all
// derived state
func (e *Explorer) applyPageLocked(page *store.PageResult) {
	e.records = page.Records
	e.pager.SetTotalCount(page.TotalCount)

	if len(e.headers) == 0 && len(page.Records) > 0 {
		e.headers = inferHeaders(page.Records[0])
		e.logger.Info("Inferred column headers from first record",
			zap.Int("columns", len(e.headers)))
	}

	e.columnStats = e.statsEngine.Compute(e.records, e.headers)
}

// inferHeaders derives headers from a record's keys when the dataset
// declares none. Sorted for determinism; map order is not stable.
func inferHeaders(rec model.Record) []string {
	headers := make([]string, 0, len(rec.Values))
	for column := range rec.Values {
		headers = append(headers, column)
	}
	sort.Strings(headers)
	return headers
}

// ---- Filtering & search ----

// SetSearch updates the free-text search term. The refetch is debounced so
// typing does not fire a fetch per keystroke; the page resets immediately.
func (e *Explorer) SetSearch(ctx context.Context, term string) {
	e.mu.Lock()
	e.search = term
	e.pager.Reset()
	e.mu.Unlock()

	e.searchDebounce.Trigger(func() {
		// Refresh records failures in LastError; nothing else to do here
		_ = e.Refresh(ctx)
	})
}

// SetBasicFilter sets or clears (empty pattern) a per-column substring
// filter and refetches from page 0
func (e *Explorer) SetBasicFilter(ctx context.Context, column, pattern string) error {
	e.mu.Lock()
	if pattern == "" {
		delete(e.basicFilters, column)
	} else {
		e.basicFilters[column] = pattern
	}
	e.pager.Reset()
	e.mu.Unlock()

	return e.Refresh(ctx)
}

// AddAdvancedFilter appends a structured filter clause and refetches from
// page 0. Untranslatable clauses are accepted and surface as diagnostics.
func (e *Explorer) AddAdvancedFilter(ctx context.Context, f model.AdvancedFilter) error {
	e.mu.Lock()
	e.advanced = append(e.advanced, f)
	e.pager.Reset()
	e.mu.Unlock()

	return e.Refresh(ctx)
}

// RemoveAdvancedFilter removes the clause at index and refetches
func (e *Explorer) RemoveAdvancedFilter(ctx context.Context, index int) error {
	e.mu.Lock()
	if index < 0 || index >= len(e.advanced) {
		e.mu.Unlock()
		return ErrFilterIndexOutOfRange
	}
	e.advanced = append(e.advanced[:index], e.advanced[index+1:]...)
	e.pager.Reset()
	e.mu.Unlock()

	return e.Refresh(ctx)
}

// ---- Sorting ----

// ToggleSort cycles the column's sort through asc, desc, none. Sorting is
// client-side over the loaded page, so no fetch is needed.
func (e *Explorer) ToggleSort(column string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sortSpec = NextSortSpec(e.sortSpec, column)
}

// SortSpec returns the active sort, if any
func (e *Explorer) SortSpec() model.SortSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortSpec
}

// ---- Pagination ----

// SetPage navigates to a page (clamped) and fetches it
func (e *Explorer) SetPage(ctx context.Context, page int) error {
	e.mu.Lock()
	e.pager.SetPage(page)
	e.mu.Unlock()
	return e.Refresh(ctx)
}

// NextPage advances one page; a no-op at the last page
func (e *Explorer) NextPage(ctx context.Context) error {
	e.mu.Lock()
	before := e.pager.Page()
	e.pager.Next()
	changed := e.pager.Page() != before
	e.mu.Unlock()

	if !changed {
		return nil
	}
	return e.Refresh(ctx)
}

// PrevPage goes back one page; a no-op at the first page
func (e *Explorer) PrevPage(ctx context.Context) error {
	e.mu.Lock()
	before := e.pager.Page()
	e.pager.Prev()
	changed := e.pager.Page() != before
	e.mu.Unlock()

	if !changed {
		return nil
	}
	return e.Refresh(ctx)
}

// SetRowsPerPage changes the page size and refetches
func (e *Explorer) SetRowsPerPage(ctx context.Context, size int) error {
	e.mu.Lock()
	e.pager.SetRowsPerPage(size)
	e.mu.Unlock()
	return e.Refresh(ctx)
}

// Page returns the current 0-based page
func (e *Explorer) Page() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pager.Page()
}

// TotalPages returns the page count for the current filtered total
func (e *Explorer) TotalPages() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pager.TotalPages()
}

// RowsPerPage returns the current page size
func (e *Explorer) RowsPerPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pager.RowsPerPage()
}

// TotalCount returns the filtered total row count
func (e *Explorer) TotalCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pager.TotalCount()
}

// ---- Layout ----

// ToggleHidden flips a column's visibility
func (e *Explorer) ToggleHidden(column string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layout.ToggleHidden(column)
}

// TogglePinned flips a column's pinned state
func (e *Explorer) TogglePinned(column string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layout.TogglePinned(column)
}

// VisibleColumns returns the ordered, post-layout column list
func (e *Explorer) VisibleColumns() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout.VisibleColumns(e.headers)
}

// ---- Selection ----

// ToggleSelect adds or removes one record id from the selection
func (e *Explorer) ToggleSelect(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Toggle(id)
}

// SelectAll selects every record on the current page, or clears the
// entire selection if the whole page is already selected
func (e *Explorer) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.ToggleAll(e.pageIDsLocked())
}

// ClearSelection empties the selection
func (e *Explorer) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Clear()
}

// SelectedIDs returns the selected record ids in sorted order
func (e *Explorer) SelectedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.IDs()
}

// SelectionCount returns the number of selected record ids
func (e *Explorer) SelectionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Count()
}

func (e *Explorer) pageIDsLocked() []string {
	ids := make([]string, 0, len(e.records))
	for _, rec := range e.records {
		ids = append(ids, rec.ID)
	}
	return ids
}

// ---- Saved views ----

// SaveView snapshots the current filter/sort/layout state under a name
func (e *Explorer) SaveView(name string) (model.SavedView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.views.Save(name, e.currentStateLocked())
}

// LoadView atomically replaces filters, search, sort, hidden columns, and
// rows-per-page with a saved view's snapshot and refetches from page 0
func (e *Explorer) LoadView(ctx context.Context, id string) error {
	view, err := e.views.Get(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	st := view.State
	e.basicFilters = st.Filters
	e.advanced = st.Advanced
	e.search = st.Search
	e.sortSpec = st.Sort
	e.layout.SetHidden(st.HiddenColumns)
	e.pager.SetRowsPerPage(st.RowsPerPage)
	e.pager.Reset()
	e.mu.Unlock()

	e.logger.Info("Loaded view",
		zap.String("viewID", view.ID),
		zap.String("name", view.Name))
	return e.Refresh(ctx)
}

// DeleteView removes a saved view. Currently applied state is unaffected
// even if it came from the deleted view; loading copies state, it does
// not bind it.
func (e *Explorer) DeleteView(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.views.Delete(id)
}

// Views lists the saved views in creation order
func (e *Explorer) Views() []model.SavedView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.views.List()
}

func (e *Explorer) currentStateLocked() model.ViewState {
	return model.ViewState{
		Filters:       e.basicFilters,
		Advanced:      e.advanced,
		Search:        e.search,
		Sort:          e.sortSpec,
		HiddenColumns: e.layout.HiddenColumns(),
		RowsPerPage:   e.pager.RowsPerPage(),
	}.Clone()
}

// ---- Outbound state ----

// Rows returns the current page after client-side sorting
func (e *Explorer) Rows() []model.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortedRowsLocked()
}

func (e *Explorer) sortedRowsLocked() []model.Record {
	colType := model.TypeText
	if cs, ok := e.columnStats[e.sortSpec.Column]; ok {
		colType = cs.Type
	}
	return SortRecords(e.records, e.sortSpec, colType)
}

// ColumnStats returns the per-column summaries for the loaded page
func (e *Explorer) ColumnStats() map[string]model.ColumnStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]model.ColumnStats, len(e.columnStats))
	for column, cs := range e.columnStats {
		out[column] = cs
	}
	return out
}

// Dataset returns the dataset descriptor read at open time
func (e *Explorer) Dataset() model.Dataset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dataset
}

// SearchTerm returns the current free-text search term
func (e *Explorer) SearchTerm() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.search
}

// BasicFilters returns a copy of the per-column filter map
func (e *Explorer) BasicFilters() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.basicFilters))
	for column, pattern := range e.basicFilters {
		out[column] = pattern
	}
	return out
}

// AdvancedFilters returns a copy of the advanced filter list
func (e *Explorer) AdvancedFilters() []model.AdvancedFilter {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.AdvancedFilter, len(e.advanced))
	copy(out, e.advanced)
	return out
}

// Diagnostics returns the clauses dropped during the last negotiation
func (e *Explorer) Diagnostics() []query.Diagnostic {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]query.Diagnostic, len(e.diagnostics))
	copy(out, e.diagnostics)
	return out
}

// LastError returns the most recent fetch failure, or nil. The last
// successfully loaded page stays visible until a retry succeeds.
func (e *Explorer) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Retry re-runs the current query after a fetch failure
func (e *Explorer) Retry(ctx context.Context) error {
	return e.Refresh(ctx)
}

// Close cancels any pending debounced work
func (e *Explorer) Close() {
	e.searchDebounce.Stop()
}

// ---- Export ----

// Export serializes either the whole sorted page or the selected subset,
// restricted to visible columns in render order. Read-only: neither the
// dataset nor the selection changes.
func (e *Explorer) Export(format, scope string) (string, error) {
	columns, rows, err := e.exportRows(scope)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatCSV:
		return export.CSV(columns, rows)
	case FormatJSON:
		return export.JSON(columns, rows)
	}
	return "", fmt.Errorf("unsupported export format %q", format)
}

// Print renders an HTML table fragment of the current sorted, filtered
// page, capped at the configured row limit with a truncation notice
func (e *Explorer) Print() string {
	e.mu.Lock()
	columns := e.layout.VisibleColumns(e.headers)
	rows := e.sortedRowsLocked()
	title := e.dataset.Name
	e.mu.Unlock()

	return export.PrintHTML(title, columns, rows, e.cfg.PrintRowLimit)
}

func (e *Explorer) exportRows(scope string) ([]string, []model.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	columns := e.layout.VisibleColumns(e.headers)
	rows := e.sortedRowsLocked()

	switch scope {
	case ScopePage:
		return columns, rows, nil
	case ScopeSelection:
		selected := make([]model.Record, 0, e.selection.Count())
		for _, rec := range rows {
			if e.selection.IsSelected(rec.ID) {
				selected = append(selected, rec)
			}
		}
		return columns, selected, nil
	}
	return nil, nil, fmt.Errorf("unsupported export scope %q", scope)
}
