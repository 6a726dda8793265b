package model

import (
	"time"
)

// LoanModel is the GORM-specific struct for the 'loans' table.
// The primary key is the caller-supplied loan ID; the unique index on it is
// what makes concurrent creates with the same ID resolve to a single row.
type LoanModel struct {
	ID         string     `gorm:"type:varchar(255);primary_key"`
	DeviceID   string     `gorm:"type:varchar(255);not null;index"`
	UserID     string     `gorm:"type:varchar(255);not null;index"`
	LoanedAt   time.Time  `gorm:"not null"`
	DueAt      time.Time  `gorm:"not null"`
	ReturnedAt *time.Time
	Status     string `gorm:"type:varchar(50);not null;index"`
	// Lifecycle timestamps are owned by the domain, not by GORM's
	// auto-tracking, so snapshots persist exactly as produced.
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

// TableName explicitly sets the table name for GORM.
func (LoanModel) TableName() string {
	return "loans"
}
