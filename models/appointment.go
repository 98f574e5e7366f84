package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentTentative AppointmentStatus = "tentative"
	AppointmentBooked    AppointmentStatus = "booked"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCanceled  AppointmentStatus = "canceled"
)

func IsValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentTentative, AppointmentBooked, AppointmentCompleted, AppointmentCanceled:
		return true
	}
	return false
}

// Appointment is a calendar booking, optionally attached to a lead. Used for
// calendar display and KPI aggregation only.
type Appointment struct {
	ID     uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	LeadID *uuid.UUID `gorm:"type:uuid;index" json:"leadId,omitempty"`

	Title      string            `gorm:"not null" json:"title"`
	Service    string            `json:"service,omitempty"`
	Start      time.Time         `gorm:"not null;index" json:"start"`
	End        time.Time         `gorm:"not null" json:"end"`
	Status     AppointmentStatus `gorm:"type:varchar(20);not null;default:'tentative'" json:"status"`
	PriceCents int64             `gorm:"default:0" json:"priceCents"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
