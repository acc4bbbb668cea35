package models

import (
	"time"
)

const (
	DefaultPhotoLimit  = 3   // photos per guest
	DefaultRevealDelay = 300 // minutes
)

type Event struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description,omitempty" gorm:"type:text"`
	HostID      *string `json:"hostId,omitempty" gorm:"type:varchar(36);index"` // nil for legacy anonymous events
	HostName    string  `json:"hostName,omitempty"`
	// Defaults are applied at creation time, not by the column: a column
	// default would silently replace a legitimate zero (instant reveal),
	// since gorm omits zero-valued fields carrying a default tag from the
	// INSERT.
	PhotoLimit  int       `json:"photoLimit" gorm:"not null"`
	RevealDelay int       `json:"revealDelay" gorm:"not null"` // minutes
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	Active      bool      `json:"active" gorm:"default:true"`
	Photos      []Photo   `json:"photos,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}
