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

func testLead() *models.Lead {
	serviceDate := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	return &models.Lead{
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
}

func signedValues() map[string]string {
	values := map[string]string{}
	for _, f := range DefaultEsignFields() {
		values[f.FieldID] = "JD"
	}
	values["signature"] = "Jane Doe"
	return values
}

func TestEffectivePricingFillsDefaults(t *testing.T) {
	p := EffectivePricing(models.PricingConfig{BridalMakeupCents: 42000, TravelCity: "Salem"})

	assert.Equal(t, int64(42000), p.BridalMakeupCents)
	assert.Equal(t, int64(35000), p.BridalHairstyleCents)
	assert.Equal(t, int64(12000), p.TouchupsHourlyCents)
	assert.Equal(t, int64(5000), p.TravelFeeCents)
	assert.Equal(t, int64(10000), p.DepositCents)
	assert.Equal(t, "Salem", p.TravelCity)
}

func TestBuildDraftItems(t *testing.T) {
	lead := testLead()
	items := BuildDraftItems(lead)

	require.Len(t, items, 4)
	assert.Equal(t, "Bridal Makeup", items[0].Label)
	assert.Equal(t, "$380", items[0].PriceText)
	assert.Equal(t, "Bridal hairstyle", items[1].Label)
	assert.Equal(t, "Makeup and hairstyle touch ups", items[2].Label)
	assert.Equal(t, "$120/hr", items[2].PriceText)
	assert.Equal(t, utils.UnitHourly, items[2].Unit)
	assert.Equal(t, "travel fee to Boston", items[3].Label)

	for i, it := range items {
		assert.Equal(t, i, it.Position)
	}
	assert.Equal(t, int64(90000), SumItemCents(items))
}

func TestBuildDraftItemsSkipsHairWhenNotWanted(t *testing.T) {
	lead := testLead()
	lead.WantsHair = false
	items := BuildDraftItems(lead)

	require.Len(t, items, 3)
	for _, it := range items {
		assert.NotEqual(t, "Bridal hairstyle", it.Label)
	}
	assert.Equal(t, int64(55000), SumItemCents(items))
}

func TestBuildDraftItemsIncludesExtras(t *testing.T) {
	lead := testLead()
	lead.Pricing.ExtraItems = []models.ExtraItem{{Label: "Lashes for 3 bridesmaids", AmountCents: 7500}}
	items := BuildDraftItems(lead)

	require.Len(t, items, 5)
	last := items[len(items)-1]
	assert.Equal(t, "Lashes for 3 bridesmaids", last.Label)
	assert.Equal(t, "$75", last.PriceText)
}

func TestTemplateFor(t *testing.T) {
	lead := testLead()
	assert.Equal(t, models.TemplateWeddingStandard, TemplateFor(lead))

	lead.EventType = "Wedding"
	assert.Equal(t, models.TemplateWeddingStandard, TemplateFor(lead))

	lead.EventType = "prom"
	assert.Equal(t, models.TemplateEventStandard, TemplateFor(lead))
}

func TestDefaultEsignFields(t *testing.T) {
	fields := DefaultEsignFields()
	require.Len(t, fields, 8)

	for i, f := range fields {
		assert.True(t, f.Required)
		assert.Equal(t, i, f.Position)
	}
	assert.Equal(t, models.EsignSignature, fields[7].Type)
	assert.Equal(t, "signature", fields[7].FieldID)
	for _, f := range fields[:7] {
		assert.Equal(t, models.EsignInitial, f.Type)
	}
}

func TestRenderBodyIsIdempotent(t *testing.T) {
	lead := testLead()
	items := BuildDraftItems(lead)

	first := RenderBody(lead, items, 10000)
	second := RenderBody(lead, items, 10000)
	assert.Equal(t, first, second)

	assert.Contains(t, first, "Jane Doe")
	assert.Contains(t, first, "10/17/2026")
	assert.Contains(t, first, "$900.00")
	assert.Contains(t, first, "$100.00")
	assert.Contains(t, first, "$800.00")
	assert.Contains(t, first, "Makeup &amp; Hair")
}

func TestRenderBodyPlaceholders(t *testing.T) {
	lead := &models.Lead{Name: "Walk In", WantsMakeup: false}
	body := RenderBody(lead, nil, 0)
	assert.Contains(t, body, "—")
}

func TestNewVersionIsMonotonic(t *testing.T) {
	lead := testLead()

	v1 := NewVersion(lead, BuildDraftItems(lead), 10000)
	assert.Equal(t, 1, v1.Version)
	assert.Equal(t, models.ContractDraft, v1.Status)
	assert.Equal(t, int64(90000), v1.TotalCents)
	assert.Equal(t, int64(10000), v1.DepositCents)
	assert.Equal(t, int64(80000), v1.BalanceCents())
	require.Len(t, v1.EsignFields, 8)

	v1Body := v1.Body
	lead.Contracts = append(lead.Contracts, v1)

	lead.Pricing.BridalMakeupCents = 42000
	v2 := NewVersion(lead, BuildDraftItems(lead), 10000)
	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, int64(94000), v2.TotalCents)

	// Prior versions are history: untouched by the new draft.
	assert.Equal(t, v1Body, lead.Contracts[0].Body)
	assert.Equal(t, 1, lead.Contracts[0].Version)
}

func TestMarkSent(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	lead := testLead()
	contract := NewVersion(lead, BuildDraftItems(lead), 10000)

	require.NoError(t, MarkSent(&contract, "https://glambook.example/sign/abc?key=pk_x", now))
	assert.Equal(t, models.ContractSent, contract.Status)
	require.NotNil(t, contract.SentAt)
	assert.Equal(t, now, *contract.SentAt)

	// Resending a sent contract refreshes the link instead of failing.
	later := now.Add(48 * time.Hour)
	require.NoError(t, MarkSent(&contract, "https://glambook.example/sign/abc?key=pk_x", later))
	assert.Equal(t, later, *contract.SentAt)

	contract.Status = models.ContractSigned
	err := MarkSent(&contract, "url", now)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, err.(*utils.AppError).Kind)

	contract.Status = models.ContractVoid
	err = MarkSent(&contract, "url", now)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, err.(*utils.AppError).Kind)
}

func TestRecordEsignRejectsMissingFields(t *testing.T) {
	now := time.Now()
	lead := testLead()
	contract := NewVersion(lead, BuildDraftItems(lead), 10000)
	contract.Status = models.ContractSent

	values := signedValues()
	delete(values, "liability")
	values["signature"] = "   " // whitespace does not count as captured

	err := RecordEsign(&contract, values, now)
	require.Error(t, err)

	appErr := err.(*utils.AppError)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
	assert.ElementsMatch(t, []string{"liability", "signature"}, appErr.Fields)

	// Nothing changed on failure.
	assert.Equal(t, models.ContractSent, contract.Status)
	assert.Nil(t, contract.SignedAt)
	assert.Empty(t, contract.DigitalStamp)
	for _, f := range contract.EsignFields {
		assert.Empty(t, f.CapturedValue)
	}
}

func TestRecordEsignSigns(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)
	lead := testLead()
	contract := NewVersion(lead, BuildDraftItems(lead), 10000)
	contract.ID = uuid.New()
	contract.Status = models.ContractSent

	values := signedValues()
	values["policies"] = "  JD  "

	require.NoError(t, RecordEsign(&contract, values, now))

	assert.Equal(t, models.ContractSigned, contract.Status)
	require.NotNil(t, contract.SignedAt)
	assert.Equal(t, now, *contract.SignedAt)
	assert.True(t, strings.HasPrefix(contract.DigitalStamp, "stamp_"+contract.ID.String()+"_"))

	for _, f := range contract.EsignFields {
		assert.NotEmpty(t, f.CapturedValue)
		assert.Equal(t, f.CapturedValue, strings.TrimSpace(f.CapturedValue))
	}
}

func TestRecordEsignIsMonotonic(t *testing.T) {
	now := time.Now()
	lead := testLead()
	contract := NewVersion(lead, BuildDraftItems(lead), 10000)
	contract.Status = models.ContractSent

	require.NoError(t, RecordEsign(&contract, signedValues(), now))
	stamp := contract.DigitalStamp

	err := RecordEsign(&contract, signedValues(), now.Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, err.(*utils.AppError).Kind)
	assert.Equal(t, stamp, contract.DigitalStamp)
}

func TestRecordEsignRejectsVoid(t *testing.T) {
	lead := testLead()
	contract := NewVersion(lead, BuildDraftItems(lead), 10000)
	contract.Status = models.ContractVoid

	err := RecordEsign(&contract, signedValues(), time.Now())
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, err.(*utils.AppError).Kind)
}
