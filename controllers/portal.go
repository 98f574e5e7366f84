// controllers/portal.go
// Client-facing surface scoped by portal key: restricted read of the
// client's own lead, intake edits, and e-sign submission. No staff auth.
package controllers

import (
	"errors"
	"net/http"

	"glambook-backend/config"
	"glambook-backend/models"
	"glambook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PortalRegisterInput struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email"`
	EventType   string `json:"eventType"`
	ServiceDate string `json:"serviceDate"`
}

// portalLead resolves the lead from the key query param or registration code.
func portalLead(c *gin.Context) (*models.Lead, bool) {
	key := c.Query("key")
	if key == "" {
		utils.RespondWithError(c, http.StatusUnauthorized, "Portal key required")
		return nil, false
	}

	var lead models.Lead
	if err := config.DB.
		Where("portal_key = ? OR registration_code = ?", key, key).
		First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid portal key")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &lead, true
}

// PortalRegister lets a client self-register, which creates a lead in the
// contacted stage. Phone is required here because it seeds the portal key.
func PortalRegister(c *gin.Context) {
	var input PortalRegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	normalized := utils.NormalizePhone(input.Phone)
	var existing models.Lead
	if err := config.DB.Where("phone_normalized = ?", normalized).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "A registration with this phone already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	lead := models.Lead{
		Name:             input.Name,
		Phone:            input.Phone,
		Email:            input.Email,
		Stage:            models.StageContacted,
		Category:         models.CategoryService,
		EventType:        input.EventType,
		WantsMakeup:      true,
		Pricing:          models.DefaultPricing(),
		RegistrationCode: utils.GenerateRandomString(6),
		Revision:         1,
	}

	if err := config.DB.Create(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"portalKey":        lead.PortalKey,
		"registrationCode": lead.RegistrationCode,
	})
}

// GetPortalLead returns the client's restricted view of their own record
func GetPortalLead(c *gin.Context) {
	lead, ok := portalLead(c)
	if !ok {
		return
	}

	var contracts []models.Contract
	config.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("EsignFields", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("lead_id = ?", lead.ID).
		Order("version DESC").
		Find(&contracts)

	var invoices []models.Invoice
	config.DB.
		Preload("Lines").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("lead_id = ? AND status <> ?", lead.ID, models.InvoiceVoid).
		Order("created_at DESC").
		Find(&invoices)

	var appointments []models.Appointment
	config.DB.Where("lead_id = ?", lead.ID).Order("start ASC").Find(&appointments)

	// Restricted projection: no staff notes, no internal bookkeeping
	c.JSON(http.StatusOK, gin.H{
		"lead": gin.H{
			"id":          lead.ID,
			"name":        lead.Name,
			"stage":       lead.Stage,
			"eventType":   lead.EventType,
			"serviceDate": lead.ServiceDate,
			"partySize":   lead.PartySize,
			"intake":      lead.Intake,
		},
		"contracts":    contracts,
		"invoices":     invoices,
		"appointments": appointments,
	})
}

// UpdatePortalIntake lets the client fill their questionnaire
func UpdatePortalIntake(c *gin.Context) {
	lead, ok := portalLead(c)
	if !ok {
		return
	}

	var input MergeIntakeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	intake := mergeIntake(lead.Intake, input)
	if err := config.DB.Model(lead).Update("intake", intake).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update intake")
		return
	}

	c.JSON(http.StatusOK, gin.H{"intake": intake})
}

// SubmitPortalEsign captures the client's initials and signature for one of
// their own contracts
func SubmitPortalEsign(c *gin.Context) {
	lead, ok := portalLead(c)
	if !ok {
		return
	}

	contractUUID, err := uuid.Parse(c.Param("contractId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contract ID format")
		return
	}

	var contract models.Contract
	if err := config.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("EsignFields", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("lead_id = ? AND id = ?", lead.ID, contractUUID).
		First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithAppError(c, utils.NotFoundf("contract not found"))
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input EsignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := signContract(lead, &contract, input.Values); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}
