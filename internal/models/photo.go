package models

import (
	"time"
)

type Photo struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"eventId" gorm:"index;not null"`
	UserID    *string   `json:"userId,omitempty" gorm:"type:varchar(36);index"` // nil means legacy/anonymous submission
	UserName  string    `json:"userName,omitempty"`
	ImageURL  string    `json:"imageUrl" gorm:"type:text"` // inline data payload (base64 data URL)
	ObjectKey string    `json:"objectKey,omitempty"`       // R2 key of the full-resolution original, if offloaded
	Filter    string    `json:"filter,omitempty"`
	TakenAt   time.Time `json:"takenAt" gorm:"autoCreateTime"`
}
