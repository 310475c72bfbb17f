package models

import (
	"time"

	"gorm.io/datatypes"
)

// WorkspaceSnapshot is the database row used by the Postgres storage
// backend: one JSONB blob per workspace key, last write wins.
type WorkspaceSnapshot struct {
	Key       string         `gorm:"column:key;primaryKey" json:"key"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName specifies the table name
func (WorkspaceSnapshot) TableName() string {
	return "workspace_snapshots"
}
