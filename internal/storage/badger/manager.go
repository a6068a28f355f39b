package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db        *BadgerDB
	paper     interfaces.PaperStorage
	content   interfaces.ContentStorage
	checklist interfaces.ChecklistStorage
	settings  interfaces.SettingsStorage
	logger    arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:        db,
		paper:     NewPaperStorage(db, logger),
		content:   NewContentStorage(db, logger),
		checklist: NewChecklistStorage(db, logger),
		settings:  NewSettingsStorage(db, logger),
		logger:    logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// PaperStorage returns the Paper storage interface
func (m *Manager) PaperStorage() interfaces.PaperStorage {
	return m.paper
}

// ContentStorage returns the Content storage interface
func (m *Manager) ContentStorage() interfaces.ContentStorage {
	return m.content
}

// ChecklistStorage returns the Checklist storage interface
func (m *Manager) ChecklistStorage() interfaces.ChecklistStorage {
	return m.checklist
}

// SettingsStorage returns the Settings storage interface
func (m *Manager) SettingsStorage() interfaces.SettingsStorage {
	return m.settings
}

// DB returns the underlying database connection
func (m *Manager) DB() interface{} {
	if m.db != nil {
		return m.db.Store()
	}
	return nil
}

// RunGC compacts the underlying value log
func (m *Manager) RunGC() error {
	if m.db != nil {
		return m.db.RunGC()
	}
	return nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
