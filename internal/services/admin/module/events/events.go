// Package events registers the epic and event admin site, a separate site
// instance from the entities admin.
package events

import (
	"context"
	"fmt"

	"github.com/louisbranch/umsra/internal/services/admin/routepath"
	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
)

// App is the app label of every model on this site.
const App = "events"

// Store is the storage surface the events site needs. Heroes and villains
// are only listed, to fill participant choices.
type Store interface {
	storage.EpicStore
	ListHeroes(ctx context.Context, query storage.ListQuery) (storage.Page[storage.Hero], error)
	ListVillains(ctx context.Context, query storage.ListQuery) (storage.Page[storage.Villain], error)
}

// NewSite builds the events admin site mounted at routepath.EventsSite.
func NewSite(store Store, pageSize int) (*site.Site, error) {
	if store == nil {
		return nil, fmt.Errorf("events store is required")
	}
	s := site.New(site.Config{
		Name:       App,
		Prefix:     routepath.EventsSite,
		Header:     "events.site_header",
		Title:      "events.site_title",
		IndexTitle: "events.index_title",
		PageSize:   pageSize,
	})
	resources := []site.Resource{
		&epicResource{store: store},
		&eventResource{store: store, prefix: routepath.EventsSite},
		&eventHeroResource{store: store},
		&eventVillainResource{store: store},
	}
	for _, resource := range resources {
		if err := s.Register(resource); err != nil {
			return nil, fmt.Errorf("register events resource: %w", err)
		}
	}
	return s, nil
}
