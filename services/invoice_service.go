// services/invoice_service.go
// Invoice engine: derive deposit/balance invoices from a contract, track
// payments, and derive overdue state at read time.
package services

import (
	"fmt"
	"time"

	"glambook-backend/models"
	"glambook-backend/utils"

	"github.com/google/uuid"
)

// DefaultDueDays is how far out a freshly created invoice is due.
const DefaultDueDays = 7

// InvoiceNumber builds the human-readable per-lead number, e.g. "INV-D-0847".
func InvoiceNumber(kind models.InvoiceKind) string {
	prefix := "B"
	if kind == models.InvoiceDeposit {
		prefix = "D"
	}
	return fmt.Sprintf("INV-%s-%s", prefix, utils.GenerateRandomString(4))
}

// DeriveFromContract builds an invoice from a contract's totals: the deposit
// invoice carries the deposit amount, the balance invoice the remainder
// (floored at zero). The invoice remembers exactly which contract version
// produced it.
func DeriveFromContract(contract *models.Contract, kind models.InvoiceKind, now time.Time) (models.Invoice, error) {
	if kind != models.InvoiceDeposit && kind != models.InvoiceBalance {
		return models.Invoice{}, utils.Validationf("unknown invoice kind %q", kind)
	}

	var amount int64
	var label string
	if kind == models.InvoiceDeposit {
		amount = contract.DepositCents
		label = "Deposit"
	} else {
		amount = contract.BalanceCents()
		label = "Remaining Balance"
	}

	due := now.AddDate(0, 0, DefaultDueDays)
	contractID := contract.ID
	return models.Invoice{
		LeadID:                contract.LeadID,
		Kind:                  kind,
		Number:                InvoiceNumber(kind),
		DueAt:                 &due,
		TotalCents:            amount,
		Status:                models.InvoiceSent,
		DerivedFromContractID: &contractID,
		ContractVersion:       contract.Version,
		Lines: []models.InvoiceLine{
			{Position: 0, Label: label, AmountCents: amount},
		},
	}, nil
}

// ManualInvoice builds an invoice from operator-entered lines, unlinked to
// any contract.
func ManualInvoice(leadID uuid.UUID, kind models.InvoiceKind, lines []models.InvoiceLine, dueAt *time.Time) (models.Invoice, error) {
	if kind != models.InvoiceDeposit && kind != models.InvoiceBalance {
		return models.Invoice{}, utils.Validationf("unknown invoice kind %q", kind)
	}
	if len(lines) == 0 {
		return models.Invoice{}, utils.Validationf("invoice needs at least one line")
	}
	var total int64
	for i := range lines {
		lines[i].Position = i
		total += lines[i].AmountCents
	}
	return models.Invoice{
		LeadID:     leadID,
		Kind:       kind,
		Number:     InvoiceNumber(kind),
		DueAt:      dueAt,
		TotalCents: total,
		Status:     models.InvoiceSent,
		Lines:      lines,
	}, nil
}

// RecordPayment appends a payment and recomputes paid status. Portal callers
// may only record positive amounts; staff may append negative corrections.
// Zero is always rejected and overpayment is permitted.
func RecordPayment(inv *models.Invoice, amountCents int64, method models.PaymentMethod, now time.Time, allowNegative bool) (models.Payment, error) {
	if inv.Status == models.InvoiceVoid {
		return models.Payment{}, utils.Conflictf("invoice %s is void", inv.Number)
	}
	if amountCents == 0 {
		return models.Payment{}, utils.Validationf("payment amount must be non-zero")
	}
	if amountCents < 0 && !allowNegative {
		return models.Payment{}, utils.Validationf("payment amount must be positive")
	}
	if !models.IsValidPaymentMethod(method) {
		return models.Payment{}, utils.Validationf("unknown payment method %q", method)
	}

	p := models.Payment{
		InvoiceID:   inv.ID,
		AmountCents: amountCents,
		Method:      method,
		CreatedAt:   now,
	}
	inv.Payments = append(inv.Payments, p)
	RecomputeStatus(inv)
	return p, nil
}

// RecomputeStatus flips the invoice to paid exactly when cumulative payments
// cover the total, and back off paid when corrections drop below it.
func RecomputeStatus(inv *models.Invoice) {
	if inv.Status == models.InvoiceVoid {
		return
	}
	if inv.PaidCents() >= inv.TotalCents {
		inv.Status = models.InvoicePaid
		return
	}
	if inv.Status == models.InvoicePaid {
		inv.Status = models.InvoiceSent
	}
}

// IsOverdue derives overdue state at read time; the stored status may cache
// it but is never the source of truth.
func IsOverdue(inv *models.Invoice, now time.Time) bool {
	if inv.Status == models.InvoicePaid || inv.Status == models.InvoiceVoid {
		return false
	}
	return inv.DueAt != nil && inv.DueAt.Before(now)
}

// DaysOverdue counts whole days past due, floored at 1 once overdue.
func DaysOverdue(inv *models.Invoice, now time.Time) int {
	if !IsOverdue(inv, now) {
		return 0
	}
	days := utils.DaysBetween(*inv.DueAt, now)
	if days < 1 {
		days = 1
	}
	return days
}
