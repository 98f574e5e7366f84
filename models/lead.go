package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"glambook-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadCategory string

const (
	CategoryService LeadCategory = "service"
	CategoryGuide   LeadCategory = "guide"
)

// Address is the event location, stored as jsonb.
type Address struct {
	Line1 string `json:"line1,omitempty"`
	Line2 string `json:"line2,omitempty"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
	Zip   string `json:"zip,omitempty"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, a)
}

// ExtraItem is an operator-added contract line beyond the standard services.
type ExtraItem struct {
	Label       string `json:"label"`
	AmountCents int64  `json:"amountCents"`
}

// PricingConfig holds the per-lead rates that seed contract drafts.
// Stored as jsonb on the lead.
type PricingConfig struct {
	BridalMakeupCents    int64       `json:"bridalMakeupCents"`
	BridalHairstyleCents int64       `json:"bridalHairstyleCents"`
	TouchupsHourlyCents  int64       `json:"touchupsHourlyCents"`
	TravelFeeCents       int64       `json:"travelFeeCents"`
	DepositCents         int64       `json:"depositCents"`
	TravelCity           string      `json:"travelCity,omitempty"`
	ExtraItems           []ExtraItem `json:"extraItems,omitempty"`
}

// DefaultPricing returns the standard rates applied when a lead has none set.
func DefaultPricing() PricingConfig {
	return PricingConfig{
		BridalMakeupCents:    38000,
		BridalHairstyleCents: 35000,
		TouchupsHourlyCents:  12000,
		TravelFeeCents:       5000,
		DepositCents:         10000,
	}
}

func (p PricingConfig) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PricingConfig) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, p)
}

// IntakeInfo is the client questionnaire, editable from the portal.
// Stored as jsonb; merges never clear unspecified fields.
type IntakeInfo struct {
	SkinType       string `json:"skinType,omitempty"`
	HairType       string `json:"hairType,omitempty"`
	Allergies      string `json:"allergies,omitempty"`
	Preferences    string `json:"preferences,omitempty"`
	Concerns       string `json:"concerns,omitempty"`
	ReferenceLinks string `json:"referenceLinks,omitempty"`
	AddressOnSite  string `json:"addressOnSite,omitempty"`
	TimeWindow     string `json:"timeWindow,omitempty"`
}

func (i IntakeInfo) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *IntakeInfo) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, i)
}

// Lead is the aggregate root: a prospective or active client with their
// pipeline stage, pricing, documents, and schedule.
type Lead struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`

	Name            string `gorm:"not null"`
	Phone           string
	PhoneNormalized string       `gorm:"index"`
	Email           string       `gorm:"index"`
	Stage           LeadStage    `gorm:"type:varchar(20);not null;default:'uncontacted'"`
	Category        LeadCategory `gorm:"type:varchar(20);default:'service'"`

	EventType     string
	ServiceDate   *time.Time
	PartySize     int  `gorm:"default:1"`
	WantsMakeup   bool `gorm:"default:true"`
	WantsHair     bool `gorm:"default:false"`
	Location      Address       `gorm:"type:jsonb;default:'{}'"`
	Pricing       PricingConfig `gorm:"type:jsonb;default:'{}'"`
	Intake        IntakeInfo    `gorm:"type:jsonb;default:'{}'"`
	LastContactAt *time.Time

	PortalKey        string `gorm:"uniqueIndex"`
	RegistrationCode string

	// Revision detects lost updates between staff; writes carry the revision
	// they read and conflict when stale.
	Revision int `gorm:"not null;default:1"`

	Contracts    []Contract    `gorm:"foreignKey:LeadID"`
	Invoices     []Invoice     `gorm:"foreignKey:LeadID"`
	Appointments []Appointment `gorm:"foreignKey:LeadID"`
	Notes        []Note        `gorm:"foreignKey:LeadID"`

	gorm.Model
}

func (l *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.PhoneNormalized == "" {
		l.PhoneNormalized = utils.NormalizePhone(l.Phone)
	}
	if l.PortalKey == "" {
		if key := utils.MakePortalKeyFromPhone(l.Phone); key != "" {
			l.PortalKey = key
		} else {
			l.PortalKey = "pk_" + utils.GenerateRandomString(10)
		}
	}
	return
}

// LatestContract returns the highest-version contract, the only one
// actionable from the UI. Older versions stay as read-only history.
func (l *Lead) LatestContract() *Contract {
	var latest *Contract
	for i := range l.Contracts {
		if latest == nil || l.Contracts[i].Version > latest.Version {
			latest = &l.Contracts[i]
		}
	}
	return latest
}

// ActiveInvoice returns the non-void invoice of the given kind, if any.
func (l *Lead) ActiveInvoice(kind InvoiceKind) *Invoice {
	for i := range l.Invoices {
		if l.Invoices[i].Kind == kind && l.Invoices[i].Status != InvoiceVoid {
			return &l.Invoices[i]
		}
	}
	return nil
}
