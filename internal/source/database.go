package source

import (
	"context"
	"log/slog"

	"github.com/Dreaeast/worker-keep-online/internal/entity"
	"github.com/Dreaeast/worker-keep-online/internal/storage"
)

// Database serves enabled StoredURL rows of a group, ordered by position.
// The connection is attempted once; after a failure every group loads empty.
type Database struct {
	manager    *storage.Manager
	connect    func() error
	dialed     bool
	connectErr error
}

func NewDatabase(manager *storage.Manager) *Database {
	return &Database{manager: manager, connect: manager.Connect}
}

func (d *Database) Name() string {
	return "database"
}

func (d *Database) Load(ctx context.Context, group entity.GroupID) []string {
	if !d.dialed {
		d.dialed = true
		if d.connectErr = d.connect(); d.connectErr != nil {
			slog.Error("failed to connect to url database, skipping it for this run", "error", d.connectErr)
		}
	}
	if d.connectErr != nil {
		return nil
	}

	var rows []entity.StoredURL
	if result := d.manager.DB().WithContext(ctx).
		Where(&entity.StoredURL{Group: group, Enabled: true}).
		Order("position ASC, id ASC").
		Find(&rows); result.Error != nil {
		slog.Error("failed to load urls from database", "group", group, "error", result.Error)
		return nil
	}
	slog.Debug("loaded urls from database", "group", group, "urls_count", len(rows))

	urls := make([]string, 0, len(rows))
	for _, row := range rows {
		urls = append(urls, row.Address)
	}
	return urls
}
