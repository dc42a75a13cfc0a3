package model

import (
	"time"

	"gorm.io/gorm"
)

// Vertical is a catalog entry for a thematic area of organizational focus
// (e.g. "Community Safety", "Education"). Candidates rank verticals in
// Part A; the suggestion step maps their problem text onto this catalog.
type Vertical struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `json:"name" gorm:"not null;uniqueIndex"`
	Description  string         `json:"description,omitempty" gorm:"type:text"`
	Active       bool           `json:"active" gorm:"not null;default:true"`
	DisplayOrder int            `json:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
