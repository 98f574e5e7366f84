// controllers/appointment.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"glambook-backend/config"
	"glambook-backend/models"
	"glambook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateAppointmentInput struct {
	LeadID     *uuid.UUID               `json:"leadId"`
	Title      string                   `json:"title" binding:"required"`
	Service    string                   `json:"service"`
	Start      time.Time                `json:"start" binding:"required"`
	End        time.Time                `json:"end" binding:"required"`
	Status     models.AppointmentStatus `json:"status"`
	PriceCents int64                    `json:"priceCents"`
}

type UpdateAppointmentInput struct {
	LeadID     *uuid.UUID                `json:"leadId"`
	Title      *string                   `json:"title"`
	Service    *string                   `json:"service"`
	Start      *time.Time                `json:"start"`
	End        *time.Time                `json:"end"`
	Status     *models.AppointmentStatus `json:"status"`
	PriceCents *int64                    `json:"priceCents"`
}

// CreateAppointment books a calendar slot, optionally attached to a lead
func CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !input.End.After(input.Start) {
		utils.RespondWithError(c, http.StatusBadRequest, "End must be after start")
		return
	}

	status := input.Status
	if status == "" {
		status = models.AppointmentTentative
	}
	if !models.IsValidAppointmentStatus(status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown appointment status")
		return
	}

	if input.LeadID != nil {
		var lead models.Lead
		if err := config.DB.First(&lead, "id = ?", *input.LeadID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Lead not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	appt := models.Appointment{
		LeadID:     input.LeadID,
		Title:      input.Title,
		Service:    input.Service,
		Start:      input.Start,
		End:        input.End,
		Status:     status,
		PriceCents: input.PriceCents,
	}

	if err := config.DB.Create(&appt).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, appt)
}

// GetCalendar buckets appointments in a date range by day for display
func GetCalendar(c *gin.Context) {
	now := time.Now()
	start := utils.BeginningOfDay(now)
	end := start.AddDate(0, 1, 0)

	if v := c.Query("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid start (want RFC3339)")
			return
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid end (want RFC3339)")
			return
		}
		end = t
	}
	if !end.After(start) {
		utils.RespondWithError(c, http.StatusBadRequest, "End must be after start")
		return
	}

	var appts []models.Appointment
	if err := config.DB.
		Where("start >= ? AND start < ?", start, end).
		Order("start ASC").
		Find(&appts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	days := make(map[string][]models.Appointment)
	for _, a := range appts {
		key := utils.DayKey(a.Start)
		days[key] = append(days[key], a)
	}

	c.JSON(http.StatusOK, gin.H{"days": days, "count": len(appts)})
}

// UpdateAppointment updates an existing appointment
func UpdateAppointment(c *gin.Context) {
	apptUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appt models.Appointment
	if err := config.DB.First(&appt, "id = ?", apptUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.LeadID != nil {
		appt.LeadID = input.LeadID
	}
	if input.Title != nil {
		appt.Title = *input.Title
	}
	if input.Service != nil {
		appt.Service = *input.Service
	}
	if input.Start != nil {
		appt.Start = *input.Start
	}
	if input.End != nil {
		appt.End = *input.End
	}
	if !appt.End.After(appt.Start) {
		utils.RespondWithError(c, http.StatusBadRequest, "End must be after start")
		return
	}
	if input.Status != nil {
		if !models.IsValidAppointmentStatus(*input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown appointment status")
			return
		}
		appt.Status = *input.Status
	}
	if input.PriceCents != nil {
		appt.PriceCents = *input.PriceCents
	}

	if err := config.DB.Save(&appt).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	c.JSON(http.StatusOK, appt)
}

// DeleteAppointment removes an appointment
func DeleteAppointment(c *gin.Context) {
	apptUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	result := config.DB.Where("id = ?", apptUUID).Delete(&models.Appointment{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete appointment")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
