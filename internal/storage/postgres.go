package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/conformis-app/conformigo/internal/database"
	"github.com/conformis-app/conformigo/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend keeps the snapshot blob in a workspace_snapshots JSONB row.
// Same key -> blob contract as the file backend, selected via config.
type GormBackend struct {
	db *database.DB
}

// NewGormBackend wraps an open database connection.
func NewGormBackend(db *database.DB) *GormBackend {
	return &GormBackend{db: db}
}

// Load reads the snapshot row for key.
func (g *GormBackend) Load(key string) ([]byte, error) {
	var snap models.WorkspaceSnapshot
	if err := g.db.Where("key = ?", key).First(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(snap.Payload), nil
}

// Save upserts the snapshot row for key.
func (g *GormBackend) Save(key string, data []byte) error {
	snap := models.WorkspaceSnapshot{
		Key:       key,
		Payload:   datatypes.JSON(data),
		UpdatedAt: time.Now().UTC(),
	}
	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&snap).Error
	if err != nil && isDiskFull(err) {
		return ErrStorageExhausted
	}
	return err
}

// Delete removes the snapshot row for key.
func (g *GormBackend) Delete(key string) error {
	return g.db.Where("key = ?", key).Delete(&models.WorkspaceSnapshot{}).Error
}

// isDiskFull matches the Postgres disk_full condition (SQLSTATE 53100).
func isDiskFull(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "53100") || strings.Contains(msg, "disk full")
}
