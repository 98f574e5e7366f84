// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"glambook-backend/config"
	"glambook-backend/models"
	"glambook-backend/services"
	"glambook-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StageCount struct {
	Stage models.LeadStage `json:"stage"`
	Count int64            `json:"count"`
}

type UpcomingAppointment struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	LeadName string `json:"leadName,omitempty"`
	Start    string `json:"start"`
	Date     string `json:"date"` // e.g. "Today", "Tomorrow", "3 days"
}

// GetDashboardOverview returns the admin landing KPIs: pipeline counts,
// money collected this month, upcoming appointments, and alert counts
func GetDashboardOverview(c *gin.Context) {
	now := time.Now()

	// Pipeline counts per stage
	var totalLeads int64
	config.DB.Model(&models.Lead{}).Count(&totalLeads)

	pipeline := make([]StageCount, 0, len(models.Stages))
	for _, stage := range models.Stages {
		var count int64
		config.DB.Model(&models.Lead{}).Where("stage = ?", stage).Count(&count)
		pipeline = append(pipeline, StageCount{Stage: stage, Count: count})
	}

	// Collected this month (sum of payments, corrections included)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyCollectedCents int64
	config.DB.Model(&models.Payment{}).
		Where("created_at >= ?", firstOfMonth).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&monthlyCollectedCents)

	// Upcoming appointments (next 7 days, excluding canceled)
	weekEnd := now.AddDate(0, 0, 7)
	var appts []models.Appointment
	config.DB.
		Where("start >= ? AND start < ? AND status <> ?", now, weekEnd, models.AppointmentCanceled).
		Order("start ASC").
		Limit(7).
		Find(&appts)

	upcoming := make([]UpcomingAppointment, 0, len(appts))
	for _, a := range appts {
		leadName := ""
		if a.LeadID != nil {
			var lead models.Lead
			if err := config.DB.First(&lead, "id = ?", *a.LeadID).Error; err == nil {
				leadName = lead.Name
			}
		}
		daysUntil := utils.DaysBetween(now, a.Start)
		var label string
		switch daysUntil {
		case 0:
			label = "Today"
		case 1:
			label = "Tomorrow"
		default:
			label = a.Start.Format("Mon Jan 2")
		}
		upcoming = append(upcoming, UpcomingAppointment{
			ID:       a.ID.String(),
			Title:    a.Title,
			LeadName: leadName,
			Start:    a.Start.Format(time.RFC3339),
			Date:     label,
		})
	}

	// Alert counts ride on the same derived view the header uses
	var leads []models.Lead
	config.DB.
		Preload("Invoices.Payments").
		Preload("Contracts", func(db *gorm.DB) *gorm.DB { return db.Order("version DESC") }).
		Find(&leads)
	alerts := services.BuildAlerts(leads, now)

	c.JSON(http.StatusOK, gin.H{
		"totalLeads":            totalLeads,
		"pipeline":              pipeline,
		"monthlyCollectedCents": monthlyCollectedCents,
		"upcomingAppointments":  upcoming,
		"overdueInvoices":       alerts.OverdueCount,
		"unsignedContracts":     alerts.UnsignedCount,
	})
}
