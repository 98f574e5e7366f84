// controllers/invoice.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"glambook-backend/config"
	"glambook-backend/models"
	"glambook-backend/services"
	"glambook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceLineInput struct {
	Label       string `json:"label" binding:"required"`
	AmountCents int64  `json:"amountCents"`
}

// CreateInvoiceInput defines the JSON structure for creating (or replacing)
// an invoice. With fromContractId set the amounts derive from that contract;
// otherwise lines are required.
type CreateInvoiceInput struct {
	Kind           models.InvoiceKind `json:"kind" binding:"required,oneof=deposit balance"`
	FromContractID *uuid.UUID         `json:"fromContractId"`
	Lines          []InvoiceLineInput `json:"lines"`
	DueAt          *time.Time         `json:"dueAt"`
}

type RecordPaymentInput struct {
	AmountCents int64                `json:"amountCents" binding:"required"`
	Method      models.PaymentMethod `json:"method" binding:"required"`
}

func invoiceForLead(c *gin.Context, leadID uuid.UUID) (*models.Invoice, bool) {
	invoiceUUID, err := uuid.Parse(c.Param("invoiceId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return nil, false
	}

	var invoice models.Invoice
	if err := config.DB.
		Preload("Lines").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("lead_id = ? AND id = ?", leadID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithAppError(c, utils.NotFoundf("invoice not found on this lead"))
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &invoice, true
}

// CreateOrReplaceInvoice creates an invoice of the given kind, superseding
// any active one: a payment-free predecessor is deleted, one with payments
// is voided so the ledger survives
func CreateOrReplaceInvoice(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}

	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var invoice models.Invoice
	if input.FromContractID != nil {
		var contract models.Contract
		if err := config.DB.Where("lead_id = ? AND id = ?", lead.ID, *input.FromContractID).
			First(&contract).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithAppError(c, utils.NotFoundf("contract not found on this lead"))
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		derived, err := services.DeriveFromContract(&contract, input.Kind, time.Now())
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		invoice = derived
		if input.DueAt != nil {
			invoice.DueAt = input.DueAt
		}
	} else {
		lines := make([]models.InvoiceLine, 0, len(input.Lines))
		for _, l := range input.Lines {
			lines = append(lines, models.InvoiceLine{Label: l.Label, AmountCents: l.AmountCents})
		}
		manual, err := services.ManualInvoice(lead.ID, input.Kind, lines, input.DueAt)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		invoice = manual
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Supersede the currently active invoice of this kind
	var existing []models.Invoice
	if err := tx.Preload("Payments").
		Where("lead_id = ? AND kind = ? AND status <> ?", lead.ID, input.Kind, models.InvoiceVoid).
		Find(&existing).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	for i := range existing {
		old := &existing[i]
		if len(old.Payments) > 0 {
			if err := tx.Model(old).Update("status", models.InvoiceVoid).Error; err != nil {
				tx.Rollback()
				utils.RespondWithError(c, http.StatusInternalServerError, "Failed to void prior invoice")
				return
			}
		} else {
			if err := tx.Where("invoice_id = ?", old.ID).Delete(&models.InvoiceLine{}).Error; err != nil {
				tx.Rollback()
				utils.RespondWithError(c, http.StatusInternalServerError, "Failed to replace prior invoice")
				return
			}
			if err := tx.Delete(old).Error; err != nil {
				tx.Rollback()
				utils.RespondWithError(c, http.StatusInternalServerError, "Failed to replace prior invoice")
				return
			}
		}
	}

	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	note := models.Note{LeadID: lead.ID, Text: fmt.Sprintf("%s invoice %s created", invoice.Kind, invoice.Number)}
	if err := tx.Create(&note).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices lists a lead's invoices, active first
func GetInvoices(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}

	var invoices []models.Invoice
	if err := config.DB.
		Preload("Lines").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("lead_id = ?", lead.ID).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// RecordInvoicePayment appends a payment to the ledger. Staff may record
// negative corrections; payments are never removed
func RecordInvoicePayment(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}
	invoice, ok := invoiceForLead(c, lead.ID)
	if !ok {
		return
	}

	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.RecordPayment(invoice, input.AmountCents, input.Method, time.Now(), true)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}
	if err := tx.Model(invoice).Update("status", invoice.Status).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}
	note := models.Note{LeadID: lead.ID, Text: fmt.Sprintf("Payment of %s (%s) recorded on %s", utils.FormatUSD(input.AmountCents), input.Method, invoice.Number)}
	if err := tx.Create(&note).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, invoice)
}

// VoidInvoice explicitly voids an invoice instead of deleting it
func VoidInvoice(c *gin.Context) {
	lead, ok := leadByID(c)
	if !ok {
		return
	}
	invoice, ok := invoiceForLead(c, lead.ID)
	if !ok {
		return
	}

	if invoice.Status == models.InvoiceVoid {
		utils.RespondWithAppError(c, utils.Conflictf("invoice %s is already void", invoice.Number))
		return
	}

	if err := config.DB.Model(invoice).Update("status", models.InvoiceVoid).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to void invoice")
		return
	}

	note := models.Note{LeadID: lead.ID, Text: fmt.Sprintf("Invoice %s voided", invoice.Number)}
	config.DB.Create(&note)

	invoice.Status = models.InvoiceVoid
	c.JSON(http.StatusOK, invoice)
}
