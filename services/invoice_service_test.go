package services

import (
	"strings"
	"testing"
	"time"

	"glambook-backend/models"
	"glambook-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContract() *models.Contract {
	return &models.Contract{
		ID:           uuid.New(),
		LeadID:       uuid.New(),
		Version:      2,
		Template:     models.TemplateWeddingStandard,
		DepositCents: 10000,
		TotalCents:   90000,
		Status:       models.ContractSigned,
	}
}

func TestInvoiceNumber(t *testing.T) {
	assert.True(t, strings.HasPrefix(InvoiceNumber(models.InvoiceDeposit), "INV-D-"))
	assert.True(t, strings.HasPrefix(InvoiceNumber(models.InvoiceBalance), "INV-B-"))
}

func TestDeriveFromContract(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	contract := testContract()

	deposit, err := DeriveFromContract(contract, models.InvoiceDeposit, now)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), deposit.TotalCents)
	assert.Equal(t, models.InvoiceSent, deposit.Status)
	require.NotNil(t, deposit.DueAt)
	assert.Equal(t, now.AddDate(0, 0, DefaultDueDays), *deposit.DueAt)
	require.Len(t, deposit.Lines, 1)
	assert.Equal(t, "Deposit", deposit.Lines[0].Label)
	require.NotNil(t, deposit.DerivedFromContractID)
	assert.Equal(t, contract.ID, *deposit.DerivedFromContractID)
	assert.Equal(t, 2, deposit.ContractVersion)

	balance, err := DeriveFromContract(contract, models.InvoiceBalance, now)
	require.NoError(t, err)
	assert.Equal(t, int64(80000), balance.TotalCents)
	assert.Equal(t, "Remaining Balance", balance.Lines[0].Label)
}

func TestDeriveFromContractFloorsBalance(t *testing.T) {
	contract := testContract()
	contract.DepositCents = 100000 // deposit exceeds total

	balance, err := DeriveFromContract(contract, models.InvoiceBalance, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.TotalCents)
}

func TestDeriveFromContractRejectsUnknownKind(t *testing.T) {
	_, err := DeriveFromContract(testContract(), "gratuity", time.Now())
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, err.(*utils.AppError).Kind)
}

func TestManualInvoice(t *testing.T) {
	leadID := uuid.New()
	due := time.Now().AddDate(0, 0, 14)

	inv, err := ManualInvoice(leadID, models.InvoiceBalance, []models.InvoiceLine{
		{Label: "Trial session", AmountCents: 15000},
		{Label: "Lashes", AmountCents: 2500},
	}, &due)
	require.NoError(t, err)

	assert.Equal(t, int64(17500), inv.TotalCents)
	assert.Equal(t, 0, inv.Lines[0].Position)
	assert.Equal(t, 1, inv.Lines[1].Position)
	assert.Nil(t, inv.DerivedFromContractID)

	_, err = ManualInvoice(leadID, models.InvoiceDeposit, nil, nil)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, err.(*utils.AppError).Kind)
}

func TestRecordPaymentFlipsPaidAtCumulativeTotal(t *testing.T) {
	now := time.Now()
	inv := &models.Invoice{ID: uuid.New(), Kind: models.InvoiceBalance, Number: "INV-B-TEST", TotalCents: 30000, Status: models.InvoiceSent}

	_, err := RecordPayment(inv, 10000, models.MethodVenmo, now, false)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceSent, inv.Status)
	assert.Equal(t, int64(20000), inv.BalanceCents())

	_, err = RecordPayment(inv, 20000, models.MethodCash, now, false)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.Equal(t, int64(0), inv.BalanceCents())
	assert.Len(t, inv.Payments, 2)
}

func TestRecordPaymentPermitsOverpayment(t *testing.T) {
	inv := &models.Invoice{ID: uuid.New(), TotalCents: 10000, Status: models.InvoiceSent}

	_, err := RecordPayment(inv, 15000, models.MethodZelle, time.Now(), false)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.Equal(t, int64(-5000), inv.BalanceCents())
}

func TestRecordPaymentNegativeCorrection(t *testing.T) {
	now := time.Now()
	inv := &models.Invoice{ID: uuid.New(), TotalCents: 30000, Status: models.InvoiceSent}

	_, err := RecordPayment(inv, 30000, models.MethodCard, now, false)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, inv.Status)

	// Negative corrections need staff privileges.
	_, err = RecordPayment(inv, -5000, models.MethodCard, now, false)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, err.(*utils.AppError).Kind)
	assert.Len(t, inv.Payments, 1)

	// A staff correction drops the invoice back off paid.
	_, err = RecordPayment(inv, -5000, models.MethodCard, now, true)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceSent, inv.Status)
	assert.Equal(t, int64(25000), inv.PaidCents())
	assert.Len(t, inv.Payments, 2)
}

func TestRecordPaymentRejections(t *testing.T) {
	now := time.Now()

	inv := &models.Invoice{ID: uuid.New(), TotalCents: 10000, Status: models.InvoiceSent}
	_, err := RecordPayment(inv, 0, models.MethodCash, now, true)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, err.(*utils.AppError).Kind)

	_, err = RecordPayment(inv, 5000, "check", now, false)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, err.(*utils.AppError).Kind)

	void := &models.Invoice{ID: uuid.New(), Number: "INV-D-VOID", TotalCents: 10000, Status: models.InvoiceVoid}
	_, err = RecordPayment(void, 5000, models.MethodCash, now, false)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, err.(*utils.AppError).Kind)
	assert.Empty(t, void.Payments)
}

func TestOverdueIsDerivedAtReadTime(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -10)
	inv := &models.Invoice{ID: uuid.New(), TotalCents: 30000, Status: models.InvoiceSent, DueAt: &due}

	assert.True(t, IsOverdue(inv, now))
	assert.Equal(t, 10, DaysOverdue(inv, now))

	// Paying in full clears overdue without touching DueAt.
	_, err := RecordPayment(inv, 30000, models.MethodVenmo, now, false)
	require.NoError(t, err)
	assert.False(t, IsOverdue(inv, now))
	assert.Equal(t, 0, DaysOverdue(inv, now))
}

func TestDaysOverdueFloorsAtOne(t *testing.T) {
	now := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
	due := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	inv := &models.Invoice{ID: uuid.New(), TotalCents: 5000, Status: models.InvoiceSent, DueAt: &due}

	// Past due earlier the same day still counts as one day overdue.
	assert.True(t, IsOverdue(inv, now))
	assert.Equal(t, 1, DaysOverdue(inv, now))
}

func TestNoDueDateNeverOverdue(t *testing.T) {
	inv := &models.Invoice{ID: uuid.New(), TotalCents: 5000, Status: models.InvoiceSent}
	assert.False(t, IsOverdue(inv, time.Now()))
	assert.Equal(t, 0, DaysOverdue(inv, time.Now()))
}
