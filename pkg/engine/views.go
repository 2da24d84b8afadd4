// pkg/engine/views.go
package engine

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabkit/explorer/pkg/model"
)

var (
	// ErrEmptyViewName rejects save attempts with a blank name
	ErrEmptyViewName = errors.New("saved view name cannot be empty")
	// ErrViewNotFound signals a lookup or delete for an unknown view id
	ErrViewNotFound = errors.New("saved view not found")
)

// ViewStore holds the session's saved views in memory. Views are created
// and deleted only by explicit action and never expire. Loading copies
// state rather than binding it, so deleting a view never disturbs filters
// that were loaded from it.
type ViewStore struct {
	logger *zap.Logger
	views  []model.SavedView
}

// NewViewStore creates an empty view store
func NewViewStore(logger *zap.Logger) *ViewStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewStore{logger: logger.Named("views")}
}

// Save snapshots the given state under a name. The name must contain at
// least one non-whitespace character; no partial view is created otherwise.
func (vs *ViewStore) Save(name string, state model.ViewState) (model.SavedView, error) {
	if strings.TrimSpace(name) == "" {
		return model.SavedView{}, ErrEmptyViewName
	}

	view := model.SavedView{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
		State:     state.Clone(),
	}
	vs.views = append(vs.views, view)

	vs.logger.Info("Saved view",
		zap.String("viewID", view.ID),
		zap.String("name", view.Name))
	return view, nil
}

// Get returns a deep copy of a view's snapshot by id
func (vs *ViewStore) Get(id string) (model.SavedView, error) {
	for _, view := range vs.views {
		if view.ID == id {
			view.State = view.State.Clone()
			return view, nil
		}
	}
	return model.SavedView{}, ErrViewNotFound
}

// List returns the saved views in creation order
func (vs *ViewStore) List() []model.SavedView {
	out := make([]model.SavedView, len(vs.views))
	copy(out, vs.views)
	return out
}

// Delete removes a view by id
func (vs *ViewStore) Delete(id string) error {
	for i, view := range vs.views {
		if view.ID == id {
			vs.views = append(vs.views[:i], vs.views[i+1:]...)
			vs.logger.Info("Deleted view", zap.String("viewID", id))
			return nil
		}
	}
	return ErrViewNotFound
}
