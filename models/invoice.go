package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceKind string

const (
	InvoiceDeposit InvoiceKind = "deposit"
	InvoiceBalance InvoiceKind = "balance"
)

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoiceVoid    InvoiceStatus = "void"
)

type PaymentMethod string

const (
	MethodCash  PaymentMethod = "cash"
	MethodVenmo PaymentMethod = "venmo"
	MethodZelle PaymentMethod = "zelle"
	MethodCard  PaymentMethod = "card"
)

func IsValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodVenmo, MethodZelle, MethodCard:
		return true
	}
	return false
}

type InvoiceLine struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;index;not null" json:"invoiceId"`
	Position    int       `gorm:"not null" json:"position"`
	Label       string    `gorm:"not null" json:"label"`
	AmountCents int64     `gorm:"not null" json:"amountCents"`
}

func (l *InvoiceLine) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// Payment is an append-only ledger entry. Corrections are negative-amount
// entries recorded by staff, never deletions.
type Payment struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID     `gorm:"type:uuid;index;not null" json:"invoiceId"`
	AmountCents int64         `gorm:"not null" json:"amountCents"`
	Method      PaymentMethod `gorm:"type:varchar(10);not null" json:"method"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// Invoice is a billing record of one kind (deposit or balance) derived from a
// contract's totals or entered manually. At most one active invoice per kind
// per lead; replacement voids a paid-against predecessor.
type Invoice struct {
	ID     uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	LeadID uuid.UUID   `gorm:"type:uuid;index;not null" json:"leadId"`
	Kind   InvoiceKind `gorm:"type:varchar(10);not null" json:"kind"`

	Number     string        `gorm:"not null" json:"number"`
	DueAt      *time.Time    `json:"dueAt,omitempty"`
	TotalCents int64         `gorm:"not null" json:"totalCents"`
	Status     InvoiceStatus `gorm:"type:varchar(10);not null;default:'draft'" json:"status"`

	// Audit trail back to the exact contract version that produced this
	// invoice; manual invoices leave both unset.
	DerivedFromContractID *uuid.UUID `gorm:"type:uuid" json:"derivedFromContractId,omitempty"`
	ContractVersion       int        `json:"contractVersion,omitempty"`

	Lines    []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID" json:"payments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// PaidCents sums the payment ledger.
func (i *Invoice) PaidCents() int64 {
	var sum int64
	for _, p := range i.Payments {
		sum += p.AmountCents
	}
	return sum
}

// BalanceCents is the remaining amount; negative when overpaid.
func (i *Invoice) BalanceCents() int64 {
	return i.TotalCents - i.PaidCents()
}
