package models

import (
	"time"

	"glambook-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContractStatus string

const (
	ContractDraft  ContractStatus = "draft"
	ContractSent   ContractStatus = "sent"
	ContractSigned ContractStatus = "signed"
	ContractVoid   ContractStatus = "void"
)

// Contract templates. The wedding prefix drives the unsigned-contracts alert.
const (
	TemplateWeddingStandard = "wedding_standard"
	TemplateEventStandard   = "event_standard"
	TemplateWeddingPrefix   = "wedding_"
)

type EsignFieldType string

const (
	EsignInitial   EsignFieldType = "initial"
	EsignSignature EsignFieldType = "signature"
)

// ContractItem is one row of the services table. AmountCents is the source
// of truth for totals; PriceText is the rendered display form ("$120/hr").
type ContractItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ContractID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"contractId"`
	Position    int             `gorm:"not null" json:"position"`
	Label       string          `gorm:"not null" json:"label"`
	PriceText   string          `gorm:"not null" json:"priceText"`
	AmountCents int64           `gorm:"not null" json:"amountCents"`
	Unit        utils.MoneyUnit `gorm:"type:varchar(10);not null;default:'flat'" json:"unit"`
}

func (i *ContractItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// EsignField is a capture point (clause initials or the signature) that must
// be filled before the contract can transition to signed.
type EsignField struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ContractID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"contractId"`
	FieldID       string         `gorm:"not null" json:"fieldId"`
	Type          EsignFieldType `gorm:"type:varchar(20);not null" json:"type"`
	Label         string         `json:"label"`
	Required      bool           `gorm:"default:true" json:"required"`
	Position      int            `gorm:"not null" json:"position"`
	CapturedValue string         `gorm:"type:text" json:"capturedValue,omitempty"`
}

func (f *EsignField) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

// Contract is a versioned, e-signable service agreement. Once signed it is
// immutable; corrections happen as a new version.
type Contract struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	LeadID  uuid.UUID `gorm:"type:uuid;index;not null" json:"leadId"`
	Version int       `gorm:"not null" json:"version"`

	Template     string         `gorm:"not null" json:"template"`
	Body         string         `gorm:"type:text" json:"body"`
	DepositCents int64          `gorm:"not null" json:"depositCents"`
	TotalCents   int64          `gorm:"not null" json:"totalCents"`
	Status       ContractStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`

	SentAt       *time.Time `json:"sentAt,omitempty"`
	SignedAt     *time.Time `json:"signedAt,omitempty"`
	SignURL      string     `json:"signUrl,omitempty"`
	DigitalStamp string     `json:"digitalStamp,omitempty"`

	Items       []ContractItem `gorm:"foreignKey:ContractID" json:"items"`
	EsignFields []EsignField   `gorm:"foreignKey:ContractID" json:"esignFields"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Contract) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// MaySend reports whether a sign link can be dispatched for this contract.
func (c *Contract) MaySend() bool {
	return c.Status == ContractDraft || c.Status == ContractSent
}

// MaySign reports whether e-sign capture is still open.
func (c *Contract) MaySign() bool {
	return c.Status == ContractDraft || c.Status == ContractSent
}

// BalanceCents is the display balance after the deposit, floored at zero.
func (c *Contract) BalanceCents() int64 {
	b := c.TotalCents - c.DepositCents
	if b < 0 {
		return 0
	}
	return b
}
