package models

import "time"

// PreferenceModel stores a saved default set under a unique key. The
// value is an opaque JSON document owned by the caller.
type PreferenceModel struct {
	Key       string    `gorm:"type:varchar(100);primary_key"`
	Value     string    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PreferenceModel) TableName() string {
	return "preferences"
}
