package source

import (
	"context"
	"log/slog"

	"github.com/Dreaeast/worker-keep-online/internal/entity"
)

// Source yields the URLs one backend holds for a group. Implementations log
// their own failures and return an empty list instead of an error.
type Source interface {
	Name() string
	Load(ctx context.Context, group entity.GroupID) []string
}

// Loader concatenates the lists of several sources, in source order.
type Loader struct {
	sources []Source
}

func NewLoader(sources ...Source) *Loader {
	return &Loader{sources: sources}
}

// LoadGroups loads every known group once.
func (l *Loader) LoadGroups(ctx context.Context) map[entity.GroupID][]string {
	groups := make(map[entity.GroupID][]string, len(entity.Groups))
	for _, group := range entity.Groups {
		urls := make([]string, 0)
		for _, src := range l.sources {
			loaded := src.Load(ctx, group)
			slog.Debug("group urls loaded", "group", group, "source", src.Name(), "urls_count", len(loaded))
			urls = append(urls, loaded...)
		}
		groups[group] = urls
	}
	return groups
}
