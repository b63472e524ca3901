package storage

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const tablePrefix = "ka_"

type Manager struct {
	connectionString string
	db               *gorm.DB
}

func NewManager(connectionString string) *Manager {
	return &Manager{connectionString: connectionString}
}

// NewManagerWithDB wraps an already opened connection.
func NewManagerWithDB(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Config is the gorm configuration every connection is opened with.
func Config() *gorm.Config {
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: tablePrefix, // table for `StoredURL` is `ka_stored_urls`
		},
	}
}

func (m *Manager) Connect() error {
	var err error

	if m.db != nil {
		return nil
	}

	m.db, err = gorm.Open(postgres.Open(m.connectionString), Config())
	if err != nil {
		return err
	}

	return nil
}

func (m *Manager) DB() *gorm.DB {
	return m.db
}
