// Package entities registers the hero and villain admin site: categories,
// origins, heroes, and villains.
package entities

import (
	"fmt"

	"github.com/louisbranch/umsra/internal/services/admin/routepath"
	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
)

// App is the app label of every model on this site.
const App = "entities"

// Store is the storage surface the entities site needs.
type Store interface {
	storage.CategoryStore
	storage.OriginStore
	storage.HeroStore
	storage.VillainStore
}

// NewSite builds the entities admin site mounted at routepath.EntitiesSite.
func NewSite(store Store, pageSize int) (*site.Site, error) {
	if store == nil {
		return nil, fmt.Errorf("entities store is required")
	}
	s := site.New(site.Config{
		Name:       App,
		Prefix:     routepath.EntitiesSite,
		Header:     "entities.site_header",
		Title:      "entities.site_title",
		IndexTitle: "entities.index_title",
		PageSize:   pageSize,
	})
	resources := []site.Resource{
		&categoryResource{store: store},
		&originResource{store: store},
		newHeroResource(store, routepath.EntitiesSite),
		newVillainResource(store, routepath.EntitiesSite),
	}
	for _, resource := range resources {
		if err := s.Register(resource); err != nil {
			return nil, fmt.Errorf("register entities resource: %w", err)
		}
	}
	return s, nil
}
