package services

import (
	"testing"
	"time"

	"glambook-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWeddingBookingFlow walks one bride from draft contract to paid deposit
// the way the product composes the engines: draft, send, sign, derive
// invoices, collect, and watch the alerts react.
func TestWeddingBookingFlow(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	serviceDate := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	lead := models.Lead{
		ID:          uuid.New(),
		Name:        "Jane Doe",
		EventType:   "wedding",
		ServiceDate: &serviceDate,
		PartySize:   4,
		WantsMakeup: true,
		WantsHair:   true,
		Location:    models.Address{City: "Boston", State: "MA"},
		Pricing:     models.DefaultPricing(),
	}

	// Draft: makeup + hair + touch-ups + travel on default rates.
	contract := NewVersion(&lead, BuildDraftItems(&lead), lead.Pricing.DepositCents)
	contract.ID = uuid.New()
	assert.Equal(t, 1, contract.Version)
	assert.Equal(t, int64(90000), contract.TotalCents)
	assert.Equal(t, int64(10000), contract.DepositCents)
	assert.Equal(t, int64(80000), contract.BalanceCents())
	assert.Equal(t, models.TemplateWeddingStandard, contract.Template)

	// Send the sign link.
	require.NoError(t, MarkSent(&contract, "https://glambook.example/sign/"+contract.ID.String(), now))
	lead.Contracts = []models.Contract{contract}

	// Until she signs, the contract shows up in the wedding alerts.
	summary := BuildAlerts([]models.Lead{lead}, now)
	require.Equal(t, 1, summary.UnsignedCount)
	assert.Equal(t, contract.ID, summary.Unsigned[0].ContractID)

	// She initials every clause and signs.
	values := map[string]string{}
	for _, f := range contract.EsignFields {
		values[f.FieldID] = "JD"
	}
	values["signature"] = "Jane Doe"
	signedAt := now.Add(26 * time.Hour)
	require.NoError(t, RecordEsign(&contract, values, signedAt))
	assert.Equal(t, models.ContractSigned, contract.Status)
	lead.Contracts[0] = contract

	summary = BuildAlerts([]models.Lead{lead}, signedAt)
	assert.Equal(t, 0, summary.UnsignedCount)

	// Derive the two invoices from the signed version.
	deposit, err := DeriveFromContract(&contract, models.InvoiceDeposit, signedAt)
	require.NoError(t, err)
	deposit.ID = uuid.New()
	balance, err := DeriveFromContract(&contract, models.InvoiceBalance, signedAt)
	require.NoError(t, err)
	balance.ID = uuid.New()

	assert.Equal(t, int64(10000), deposit.TotalCents)
	assert.Equal(t, int64(80000), balance.TotalCents)
	assert.Equal(t, contract.Version, deposit.ContractVersion)

	// She Venmos the deposit the same day.
	_, err = RecordPayment(&deposit, 10000, models.MethodVenmo, signedAt, false)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, deposit.Status)

	// Two weeks on, only the balance invoice has gone overdue.
	lead.Invoices = []models.Invoice{deposit, balance}
	later := signedAt.AddDate(0, 0, 14)
	summary = BuildAlerts([]models.Lead{lead}, later)
	require.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, balance.ID, summary.Overdue[0].InvoiceID)
	assert.Equal(t, 7, summary.Overdue[0].DaysOverdue)
	assert.Equal(t, int64(80000), summary.Overdue[0].BalanceCents)
}
