package services

import (
	"testing"
	"time"

	"glambook-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overdueInvoice(daysLate int, now time.Time) models.Invoice {
	due := now.AddDate(0, 0, -daysLate)
	return models.Invoice{
		ID:         uuid.New(),
		Kind:       models.InvoiceDeposit,
		Number:     "INV-D-TEST",
		TotalCents: 10000,
		Status:     models.InvoiceSent,
		DueAt:      &due,
	}
}

func TestBuildAlertsOverdueSortsMostOverdueFirst(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	leads := []models.Lead{
		{ID: uuid.New(), Name: "Alice", Invoices: []models.Invoice{overdueInvoice(3, now)}},
		{ID: uuid.New(), Name: "Beth", Invoices: []models.Invoice{overdueInvoice(12, now)}},
		{ID: uuid.New(), Name: "Cara", Invoices: []models.Invoice{overdueInvoice(7, now)}},
	}

	summary := BuildAlerts(leads, now)

	require.Equal(t, 3, summary.OverdueCount)
	assert.Equal(t, "Beth", summary.Overdue[0].LeadName)
	assert.Equal(t, 12, summary.Overdue[0].DaysOverdue)
	assert.Equal(t, "Cara", summary.Overdue[1].LeadName)
	assert.Equal(t, "Alice", summary.Overdue[2].LeadName)
}

func TestBuildAlertsSkipsSettledAndVoidInvoices(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	paid := overdueInvoice(5, now)
	paid.Status = models.InvoicePaid
	void := overdueInvoice(5, now)
	void.Status = models.InvoiceVoid
	future := overdueInvoice(-2, now)

	leads := []models.Lead{{ID: uuid.New(), Name: "Dana", Invoices: []models.Invoice{paid, void, future}}}

	summary := BuildAlerts(leads, now)
	assert.Equal(t, 0, summary.OverdueCount)
	assert.Empty(t, summary.Overdue)
}

func TestBuildAlertsOverdueBalanceAccountsForPartialPayment(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	inv := overdueInvoice(4, now)
	inv.TotalCents = 80000
	inv.Payments = []models.Payment{{AmountCents: 30000, Method: models.MethodVenmo}}

	leads := []models.Lead{{ID: uuid.New(), Name: "Erin", Invoices: []models.Invoice{inv}}}

	summary := BuildAlerts(leads, now)
	require.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, int64(30000), summary.Overdue[0].PaidCents)
	assert.Equal(t, int64(50000), summary.Overdue[0].BalanceCents)
}

func TestBuildAlertsUnsignedWeddingContractsOnly(t *testing.T) {
	now := time.Now()

	leads := []models.Lead{
		{ID: uuid.New(), Name: "Fay", Contracts: []models.Contract{
			{ID: uuid.New(), Version: 1, Template: models.TemplateWeddingStandard, Status: models.ContractSent},
		}},
		{ID: uuid.New(), Name: "Gia", Contracts: []models.Contract{
			{ID: uuid.New(), Version: 1, Template: models.TemplateEventStandard, Status: models.ContractSent},
		}},
		{ID: uuid.New(), Name: "Hope", Contracts: []models.Contract{
			{ID: uuid.New(), Version: 1, Template: models.TemplateWeddingStandard, Status: models.ContractSigned},
			{ID: uuid.New(), Version: 2, Template: models.TemplateWeddingStandard, Status: models.ContractVoid},
		}},
	}

	summary := BuildAlerts(leads, now)
	require.Equal(t, 1, summary.UnsignedCount)
	assert.Equal(t, "Fay", summary.Unsigned[0].LeadName)
}

func TestBuildAlertsUnsignedSortsOldestSentFirst(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)
	dayAgo := now.AddDate(0, 0, -1)

	leads := []models.Lead{
		{ID: uuid.New(), Name: "Recent Send", Contracts: []models.Contract{
			{ID: uuid.New(), Version: 1, Template: models.TemplateWeddingStandard, Status: models.ContractSent, SentAt: &dayAgo},
		}},
		{ID: uuid.New(), Name: "Stale Send", Contracts: []models.Contract{
			{ID: uuid.New(), Version: 1, Template: models.TemplateWeddingStandard, Status: models.ContractSent, SentAt: &weekAgo},
		}},
		{ID: uuid.New(), Name: "Never Sent", Contracts: []models.Contract{
			{ID: uuid.New(), Version: 1, Template: models.TemplateWeddingStandard, Status: models.ContractDraft, CreatedAt: dayAgo},
		}},
	}

	summary := BuildAlerts(leads, now)
	require.Equal(t, 3, summary.UnsignedCount)
	assert.Equal(t, "Never Sent", summary.Unsigned[0].LeadName)
	assert.Equal(t, "Stale Send", summary.Unsigned[1].LeadName)
	assert.Equal(t, "Recent Send", summary.Unsigned[2].LeadName)
}

func TestBuildAlertsEmptyLeadSet(t *testing.T) {
	summary := BuildAlerts(nil, time.Now())
	assert.Equal(t, 0, summary.OverdueCount)
	assert.Equal(t, 0, summary.UnsignedCount)
	assert.NotNil(t, summary.Overdue)
	assert.NotNil(t, summary.Unsigned)
}
