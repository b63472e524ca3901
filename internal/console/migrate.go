package console

import (
	"errors"
	"log/slog"

	"github.com/Dreaeast/worker-keep-online/internal/config"
	"github.com/Dreaeast/worker-keep-online/internal/entity"
	"github.com/Dreaeast/worker-keep-online/internal/storage"
)

var ErrNoDatabase = errors.New("KEEPALIVE_DB_STRING is not set")

type MigrateCommand struct {
	conf *config.Config
}

func NewMigrateCommand() *MigrateCommand {
	cmd := MigrateCommand{}
	return &cmd
}

func (cmd *MigrateCommand) Name() string {
	return "migrate"
}

func (cmd *MigrateCommand) Description() string {
	return "migrates GORM database scheme"
}

func (cmd *MigrateCommand) Run() error {
	slog.Info("migrating GORM database scheme")

	conf := cmd.conf
	if conf == nil {
		conf = config.GetConfig()
	}
	if conf.DbConnectionString == "" {
		return ErrNoDatabase
	}

	manager := storage.NewManager(conf.DbConnectionString)
	if err := manager.Connect(); err != nil {
		return err
	}
	if err := manager.DB().AutoMigrate(&entity.StoredURL{}); err != nil {
		return err
	}

	slog.Info("successfully migrated GORM database scheme")

	return nil
}
