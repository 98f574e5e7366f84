package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is a timestamped staff annotation on a lead. Append-only.
type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	LeadID    uuid.UUID `gorm:"type:uuid;index;not null" json:"leadId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
