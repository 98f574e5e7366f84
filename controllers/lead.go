// controllers/lead.go
package controllers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"glambook-backend/config"
	"glambook-backend/models"
	"glambook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// stagePolicy is declared config, not emergent UI behavior: permissive by
// default, strict (forward-only) when STAGE_POLICY=strict.
func stagePolicy() models.StagePolicy {
	if os.Getenv("STAGE_POLICY") == "strict" {
		return models.StrictStagePolicy()
	}
	return models.PermissiveStagePolicy()
}

// CreateLeadInput defines the expected JSON structure for creating a lead.
// Phone is optional for staff-created leads; portal self-registration
// requires it.
type CreateLeadInput struct {
	Name        string              `json:"name" binding:"required"`
	Phone       string              `json:"phone"`
	Email       string              `json:"email"`
	Stage       *models.LeadStage   `json:"stage"`
	Category    models.LeadCategory `json:"category"`
	EventType   string              `json:"eventType"`
	ServiceDate *time.Time          `json:"serviceDate"`
	PartySize   int                 `json:"partySize"`
	WantsHair   bool                `json:"wantsHair"`
	Location    *models.Address     `json:"location"`
}

// UpdateLeadInput defines the expected JSON structure for updating lead
// details. Revision is the optimistic-concurrency check.
type UpdateLeadInput struct {
	Revision    int                  `json:"revision" binding:"required,min=1"`
	Name        *string              `json:"name"`
	Phone       *string              `json:"phone"`
	Email       *string              `json:"email"`
	Category    *models.LeadCategory `json:"category"`
	EventType   *string              `json:"eventType"`
	ServiceDate *time.Time           `json:"serviceDate"`
	PartySize   *int                 `json:"partySize"`
	WantsMakeup *bool                `json:"wantsMakeup"`
	WantsHair   *bool                `json:"wantsHair"`
	Location    *models.Address      `json:"location"`
}

type UpdateStageInput struct {
	Revision int              `json:"revision" binding:"required,min=1"`
	Stage    models.LeadStage `json:"stage" binding:"required"`
}

type UpdatePricingInput struct {
	Revision int                  `json:"revision" binding:"required,min=1"`
	Pricing  models.PricingConfig `json:"pricing" binding:"required"`
}

type AddNoteInput struct {
	Text string `json:"text" binding:"required"`
}

type MergeIntakeInput struct {
	SkinType       *string `json:"skinType"`
	HairType       *string `json:"hairType"`
	Allergies      *string `json:"allergies"`
	Preferences    *string `json:"preferences"`
	Concerns       *string `json:"concerns"`
	ReferenceLinks *string `json:"referenceLinks"`
	AddressOnSite  *string `json:"addressOnSite"`
	TimeWindow     *string `json:"timeWindow"`
}

// leadByID loads a lead scoped to the route param.
func leadByID(c *gin.Context) (*models.Lead, bool) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return nil, false
	}

	var lead models.Lead
	if err := config.DB.First(&lead, "id = ?", leadUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &lead, true
}

// bumpRevision persists updates guarded by the optimistic revision check.
// Returns false (and responds 409) when another writer got there first.
func bumpRevision(c *gin.Context, lead *models.Lead, expected int, updates map[string]interface{}) bool {
	updates["revision"] = gorm.Expr("revision + 1")
	res := config.DB.Model(&models.Lead{}).
		Where("id = ? AND revision = ?", lead.ID, expected).
		Updates(updates)
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update lead")
		return false
	}
	if res.RowsAffected == 0 {
		utils.RespondWithAppError(c, utils.Conflictf("lead was modified by someone else; reload and retry"))
		return false
	}
	return true
}

// CreateLead creates a new lead in the pipeline
func CreateLead(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input CreateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	stage := models.StageUncontacted
	if input.Stage != nil {
		if !models.IsValidStage(*input.Stage) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown stage")
			return
		}
		stage = *input.Stage
	}

	category := input.Category
	if category == "" {
		category = models.CategoryService
	}

	partySize := input.PartySize
	if partySize < 1 {
		partySize = 1
	}

	lead := models.Lead{
		CreatedByUserID: uuid.Must(uuid.Parse(userID.(string))),
		Name:            input.Name,
		Phone:           input.Phone,
		Email:           input.Email,
		Stage:           stage,
		Category:        category,
		EventType:       input.EventType,
		ServiceDate:     input.ServiceDate,
		PartySize:       partySize,
		WantsMakeup:     true,
		WantsHair:       input.WantsHair,
		Pricing:         models.DefaultPricing(),
		Revision:        1,
	}
	if input.Location != nil {
		lead.Location = *input.Location
	}

	if err := config.DB.Create(&lead).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// GetLeads retrieves lead summaries, optionally filtered by stage
func GetLeads(c *gin.Context) {
	query := config.DB.Model(&models.Lead{}).Order("created_at DESC")

	if stage := c.Query("stage"); stage != "" {
		if !models.IsValidStage(models.LeadStage(stage)) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown stage")
			return
		}
		query = query.Where("stage = ?", stage)
	}

	var leads []models.Lead
	if err := query.Find(&leads).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve leads")
		return
	}

	c.JSON(http.StatusOK, leads)
}

// GetLead retrieves the full lead aggregate
func GetLead(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	var lead models.Lead
	if err := config.DB.
		Preload("Contracts", func(db *gorm.DB) *gorm.DB { return db.Order("version DESC") }).
		Preload("Contracts.Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Contracts.EsignFields", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Invoices.Lines").
		Preload("Invoices.Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Appointments").
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&lead, "id = ?", leadUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, lead)
}

// UpdateLead updates lead details with an optimistic revision check
func UpdateLead(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}

	var input UpdateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	updates := map[string]interface{}{}

	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		updates["phone"] = *input.Phone
		updates["phone_normalized"] = utils.NormalizePhone(*input.Phone)
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.EventType != nil {
		updates["event_type"] = *input.EventType
	}
	if input.ServiceDate != nil {
		updates["service_date"] = input.ServiceDate
	}
	if input.PartySize != nil {
		updates["party_size"] = *input.PartySize
	}
	if input.WantsMakeup != nil {
		updates["wants_makeup"] = *input.WantsMakeup
	}
	if input.WantsHair != nil {
		updates["wants_hair"] = *input.WantsHair
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}

	if !bumpRevision(c, lead, input.Revision, updates) {
		return
	}

	var updated models.Lead
	config.DB.First(&updated, "id = ?", lead.ID)
	c.JSON(http.StatusOK, updated)
}

// UpdateLeadStage moves a lead through the pipeline per the stage policy
func UpdateLeadStage(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}

	var input UpdateStageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !models.IsValidStage(input.Stage) {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown stage")
		return
	}
	if !stagePolicy().Allows(lead.Stage, input.Stage) {
		utils.RespondWithAppError(c, utils.Validationf("stage transition %s -> %s is not allowed", lead.Stage, input.Stage))
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"stage":           input.Stage,
		"last_contact_at": &now,
	}
	if !bumpRevision(c, lead, input.Revision, updates) {
		return
	}

	var updated models.Lead
	config.DB.First(&updated, "id = ?", lead.ID)
	c.JSON(http.StatusOK, updated)
}

// UpdateLeadPricing replaces the per-lead rates used to seed contracts
func UpdateLeadPricing(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}

	var input UpdatePricingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	for _, cents := range []int64{
		input.Pricing.BridalMakeupCents,
		input.Pricing.BridalHairstyleCents,
		input.Pricing.TouchupsHourlyCents,
		input.Pricing.TravelFeeCents,
		input.Pricing.DepositCents,
	} {
		if cents < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Rates cannot be negative")
			return
		}
	}

	if !bumpRevision(c, lead, input.Revision, map[string]interface{}{"pricing": input.Pricing}) {
		return
	}

	var updated models.Lead
	config.DB.First(&updated, "id = ?", lead.ID)
	c.JSON(http.StatusOK, updated)
}

// AddNote appends a timestamped note to the lead
func AddNote(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}

	var input AddNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	note := models.Note{LeadID: lead.ID, Text: input.Text}
	if err := config.DB.Create(&note).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add note")
		return
	}

	c.JSON(http.StatusCreated, note)
}

// MergeIntake shallow-merges provided intake fields, never clearing
// unspecified ones
func MergeIntake(c *gin.Context) {
	lead, ok := leadByID(c)
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

	lead.Intake = intake
	c.JSON(http.StatusOK, lead)
}

func mergeIntake(current models.IntakeInfo, input MergeIntakeInput) models.IntakeInfo {
	if input.SkinType != nil {
		current.SkinType = *input.SkinType
	}
	if input.HairType != nil {
		current.HairType = *input.HairType
	}
	if input.Allergies != nil {
		current.Allergies = *input.Allergies
	}
	if input.Preferences != nil {
		current.Preferences = *input.Preferences
	}
	if input.Concerns != nil {
		current.Concerns = *input.Concerns
	}
	if input.ReferenceLinks != nil {
		current.ReferenceLinks = *input.ReferenceLinks
	}
	if input.AddressOnSite != nil {
		current.AddressOnSite = *input.AddressOnSite
	}
	if input.TimeWindow != nil {
		current.TimeWindow = *input.TimeWindow
	}
	return current
}

// DeleteLead soft deletes a lead; documents stay attached so financial
// history survives
func DeleteLead(c *gin.Context) {
	leadUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid lead ID format")
		return
	}

	result := config.DB.Where("id = ?", leadUUID).Delete(&models.Lead{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete lead")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Lead not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}
