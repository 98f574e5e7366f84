// controllers/contract.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"glambook-backend/config"
	"glambook-backend/models"
	"glambook-backend/services"
	"glambook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sender dispatches sign links and receipts. Wired in main; nil disables
// outbound messaging (contracts then cannot be marked sent).
var Sender services.MessageSender

type ContractItemInput struct {
	Label       string          `json:"label" binding:"required"`
	AmountCents int64           `json:"amountCents"`
	PriceText   string          `json:"priceText"`
	Unit        utils.MoneyUnit `json:"unit"`
}

// SaveContractInput defines the JSON structure for saving a contract version.
// Items default to the draft built from the lead's pricing; a priceText
// without amountCents is run through the tolerant money parser.
type SaveContractInput struct {
	Items        []ContractItemInput `json:"items"`
	DepositCents *int64              `json:"depositCents"`
}

type EsignInput struct {
	Values map[string]string `json:"values" binding:"required"`
}

func contractForLead(c *gin.Context, leadID uuid.UUID) (*models.Contract, bool) {
	contractUUID, err := uuid.Parse(c.Param("contractId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid contract ID format")
		return nil, false
	}

	var contract models.Contract
	if err := config.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("EsignFields", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("lead_id = ? AND id = ?", leadID, contractUUID).
		First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithAppError(c, utils.NotFoundf("contract not found on this lead"))
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &contract, true
}

func resolveItems(lead *models.Lead, input []ContractItemInput) []models.ContractItem {
	if len(input) == 0 {
		return services.BuildDraftItems(lead)
	}
	items := make([]models.ContractItem, 0, len(input))
	for _, in := range input {
		item := models.ContractItem{Label: in.Label, AmountCents: in.AmountCents, Unit: in.Unit, PriceText: in.PriceText}
		if item.AmountCents == 0 && in.PriceText != "" {
			item.AmountCents, item.Unit = utils.ParseMoney(in.PriceText)
		}
		if item.Unit == "" {
			item.Unit = utils.UnitFlat
		}
		if item.PriceText == "" {
			item.PriceText = utils.PriceText(item.AmountCents, item.Unit)
		}
		items = append(items, item)
	}
	return items
}

// BuildContractDraft previews the items and rendered body a new version
// would contain, without persisting anything
func BuildContractDraft(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}

	items := services.BuildDraftItems(lead)
	deposit := services.EffectivePricing(lead.Pricing).DepositCents

	c.JSON(http.StatusOK, gin.H{
		"items":        items,
		"depositCents": deposit,
		"totalCents":   services.SumItemCents(items),
		"body":         services.RenderBody(lead, items, deposit),
	})
}

// SaveContractVersion renders and persists the next contract version.
// Prior versions are never mutated.
func SaveContractVersion(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}

	var input SaveContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := config.DB.Preload("Contracts").First(lead, "id = ?", lead.ID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	items := resolveItems(lead, input.Items)
	deposit := services.EffectivePricing(lead.Pricing).DepositCents
	if input.DepositCents != nil {
		if *input.DepositCents < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Deposit cannot be negative")
			return
		}
		deposit = *input.DepositCents
	}

	contract := services.NewVersion(lead, items, deposit)
	if err := config.DB.Create(&contract).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save contract")
		return
	}

	c.JSON(http.StatusCreated, contract)
}

// GetContracts lists a lead's contracts newest-version-first
func GetContracts(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}

	var contracts []models.Contract
	if err := config.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("EsignFields", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("lead_id = ?", lead.ID).
		Order("version DESC").
		Find(&contracts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve contracts")
		return
	}

	c.JSON(http.StatusOK, contracts)
}

// SendContract dispatches the sign link and marks the contract sent only
// after confirmed dispatch, so staff never believe a client received a
// contract that failed to send
func SendContract(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}
	contract, ok := contractForLead(c, lead.ID)
	if !ok {
		return
	}

	if !contract.MaySend() {
		utils.RespondWithAppError(c, utils.Conflictf("contract v%d cannot be sent in status %s", contract.Version, contract.Status))
		return
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	signURL := fmt.Sprintf("%s/sign/%s?key=%s", baseURL, contract.ID, lead.PortalKey)
	message := fmt.Sprintf("Hi %s, your contract is ready to review and sign: %s", lead.Name, signURL)

	if Sender == nil {
		utils.RespondWithAppError(c, utils.Upstreamf("messaging is not configured"))
		return
	}
	channel, err := Sender.Send(lead.Phone, message)
	logEntry := models.NotificationLog{
		LeadID:  lead.ID,
		Kind:    "sign_link",
		Message: message,
		Channel: channel,
		Status:  "sent",
		SentAt:  time.Now(),
	}
	if err != nil {
		logEntry.Status = "failed"
		logEntry.ErrorMessage = err.Error()
		config.DB.Create(&logEntry)
		config.Log.Warn("sign link dispatch failed", zap.String("contract", contract.ID.String()), zap.Error(err))
		utils.RespondWithAppError(c, utils.Upstreamf("failed to send sign link: %v", err))
		return
	}
	config.DB.Create(&logEntry)

	now := time.Now()
	if err := services.MarkSent(contract, signURL, now); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if err := config.DB.Model(contract).Updates(map[string]interface{}{
		"status":   contract.Status,
		"sent_at":  contract.SentAt,
		"sign_url": contract.SignURL,
	}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update contract")
		return
	}

	note := models.Note{LeadID: lead.ID, Text: fmt.Sprintf("Contract v%d sent (link: %s)", contract.Version, signURL)}
	config.DB.Create(&note)

	c.JSON(http.StatusOK, contract)
}

// RecordContractEsign captures staff-side e-sign completion
func RecordContractEsign(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}
	contract, ok := contractForLead(c, lead.ID)
	if !ok {
		return
	}

	var input EsignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := signContract(lead, contract, input.Values); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// signContract applies RecordEsign and persists the result atomically.
// Shared by the admin and portal surfaces.
func signContract(lead *models.Lead, contract *models.Contract, values map[string]string) error {
	if err := services.RecordEsign(contract, values, time.Now()); err != nil {
		return err
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(contract).Updates(map[string]interface{}{
		"status":        contract.Status,
		"signed_at":     contract.SignedAt,
		"digital_stamp": contract.DigitalStamp,
	}).Error; err != nil {
		tx.Rollback()
		return err
	}
	for _, f := range contract.EsignFields {
		if err := tx.Model(&models.EsignField{}).Where("id = ?", f.ID).
			Update("captured_value", f.CapturedValue).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	note := models.Note{LeadID: lead.ID, Text: fmt.Sprintf("Contract v%d signed", contract.Version)}
	if err := tx.Create(&note).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
