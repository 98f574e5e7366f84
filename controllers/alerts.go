// controllers/alerts.go
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

// GetAlerts recomputes the dashboard-header alerts from the full lead set
func GetAlerts(c *gin.Context) {
	var leads []models.Lead
	if err := config.DB.
		Preload("Invoices.Payments").
		Preload("Contracts", func(db *gorm.DB) *gorm.DB { return db.Order("version DESC") }).
		Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	c.JSON(http.StatusOK, services.BuildAlerts(leads, time.Now()))
}
