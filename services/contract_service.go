// services/contract_service.go
// Contract engine: draft building from pricing, deterministic rendering,
// monotonic versioning, and e-sign completion. Pure domain logic; controllers
// own persistence.
package services

import (
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"glambook-backend/models"
	"glambook-backend/utils"
)

// BusinessName is the legal name printed on contracts.
func BusinessName() string {
	if v := os.Getenv("BUSINESS_NAME"); v != "" {
		return v
	}
	return "GLAMBOOK STUDIO LLC"
}

func orDefault(v, fallback int64) int64 {
	if v > 0 {
		return v
	}
	return fallback
}

// EffectivePricing fills unset rates with the standard defaults.
func EffectivePricing(p models.PricingConfig) models.PricingConfig {
	d := models.DefaultPricing()
	return models.PricingConfig{
		BridalMakeupCents:    orDefault(p.BridalMakeupCents, d.BridalMakeupCents),
		BridalHairstyleCents: orDefault(p.BridalHairstyleCents, d.BridalHairstyleCents),
		TouchupsHourlyCents:  orDefault(p.TouchupsHourlyCents, d.TouchupsHourlyCents),
		TravelFeeCents:       orDefault(p.TravelFeeCents, d.TravelFeeCents),
		DepositCents:         orDefault(p.DepositCents, d.DepositCents),
		TravelCity:           p.TravelCity,
		ExtraItems:           p.ExtraItems,
	}
}

// BuildDraftItems emits the services table for a draft contract: bridal
// makeup always, hairstyle only when the lead wants hair, touch-ups as an
// hourly rate, the travel fee, then any operator extras. Order is fixed.
func BuildDraftItems(lead *models.Lead) []models.ContractItem {
	p := EffectivePricing(lead.Pricing)

	city := p.TravelCity
	if city == "" {
		city = lead.Location.City
	}
	if city == "" {
		city = "your area"
	}

	items := []models.ContractItem{
		{Label: "Bridal Makeup", AmountCents: p.BridalMakeupCents, Unit: utils.UnitFlat},
	}
	if lead.WantsHair {
		items = append(items, models.ContractItem{Label: "Bridal hairstyle", AmountCents: p.BridalHairstyleCents, Unit: utils.UnitFlat})
	}
	items = append(items,
		models.ContractItem{Label: "Makeup and hairstyle touch ups", AmountCents: p.TouchupsHourlyCents, Unit: utils.UnitHourly},
		models.ContractItem{Label: "travel fee to " + city, AmountCents: p.TravelFeeCents, Unit: utils.UnitFlat},
	)
	for _, extra := range p.ExtraItems {
		items = append(items, models.ContractItem{Label: extra.Label, AmountCents: extra.AmountCents, Unit: utils.UnitFlat})
	}

	for i := range items {
		items[i].Position = i
		items[i].PriceText = utils.PriceText(items[i].AmountCents, items[i].Unit)
	}
	return items
}

// SumItemCents totals the numeric portion of every item regardless of unit.
// Hourly items contribute their stated rate only, so the result is a display
// total, not the true value of hourly-billed work.
func SumItemCents(items []models.ContractItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.AmountCents
	}
	return sum
}

// TemplateFor picks the contract template from the lead's event type.
func TemplateFor(lead *models.Lead) string {
	if strings.EqualFold(lead.EventType, "wedding") {
		return models.TemplateWeddingStandard
	}
	return models.TemplateEventStandard
}

// DefaultEsignFields returns the eight capture points every contract carries:
// one initial per clause plus the client signature. All required.
func DefaultEsignFields() []models.EsignField {
	fields := []models.EsignField{
		{FieldID: "policies", Type: models.EsignInitial, Label: "Policies Bookings"},
		{FieldID: "cancellation", Type: models.EsignInitial, Label: "Cancellation Policy"},
		{FieldID: "delays", Type: models.EsignInitial, Label: "Delays"},
		{FieldID: "parking", Type: models.EsignInitial, Label: "Parking Fees"},
		{FieldID: "travel", Type: models.EsignInitial, Label: "Travel Fees"},
		{FieldID: "liability", Type: models.EsignInitial, Label: "Liability"},
		{FieldID: "payment", Type: models.EsignInitial, Label: "Payment"},
		{FieldID: "signature", Type: models.EsignSignature, Label: "Client Signature"},
	}
	for i := range fields {
		fields[i].Required = true
		fields[i].Position = i
	}
	return fields
}

type contractTemplateData struct {
	Business    string
	Client      string
	EventType   string
	ServiceDate string
	PartySize   int
	Services    string
	Location    string
	Items       []models.ContractItem
	Deposit     string
	Total       string
	Balance     string
}

var contractTmpl = template.Must(template.New("contract").Parse(`<article class="contract">
<header>
<div>Makeup and hairstyle Contract</div>
<div class="business">&ldquo;{{.Business}}&rdquo;</div>
</header>
<section>
<p>Thank you for your interest in my services. Please carefully review this contract.</p>
<p>I require this contract to be completed and submitted with a non-refundable deposit of <strong>{{.Deposit}}</strong> in order to secure your event date.</p>
<p>The complete balance for your party will be due on or before the date. Please feel free to contact me with any questions or concerns you may have. I look forward to working with you and your party. Thank you and congratulations!</p>
</section>
<section>
<div class="heading">MAKEUP AND HAIRSTYLE SERVICES:</div>
<table>
<thead><tr><th>Services</th><th>Prices</th></tr></thead>
<tbody>
{{range .Items}}<tr><td>{{.Label}}</td><td>{{.PriceText}}</td></tr>
{{end}}</tbody>
</table>
</section>
<section class="policies">
<p>___POLICIES BOOKINGS: To secure a date, a signed contract and {{.Deposit}} deposit are required. This deposit is non-refundable and non-transferable. This deposit will be put toward the client&rsquo;s total event day balance if the client chooses event day services. The remaining balance will be due on or before the day of the event. Accepted forms of payment include: cash, Venmo, Zelle. Gratuity is never expected but always appreciated.</p>
<p>___CANCELLATION POLICY: Cancellations must be made at least ninety (90) days prior to the client&rsquo;s reserved date or the client will be responsible for paying the full amount of services agreed upon in this contract.</p>
<p>__DELAYS: A late fee of $50.00 will be charged for every 30 minutes of delay when a client is late for the scheduled time, or if the scheduled makeup application exceeds the allotted time due to client delays.</p>
<p>__PARKING FEES: Where parking, valet or toll fees may be incurred. This amount will be included in the final bill and will be due on the day of the event.</p>
<p>__TRAVEL FEES: Travel fees apply for day-of appointments.</p>
<p>____LIABILITY: All brushes, tools, and makeup products are sanitized between every makeup application. Makeup products used are hypoallergenic. Any allergies and/or skin conditions should be reported by the client to the makeup artist prior to application and, if need be, a sample test of makeup may be performed on the skin to test reaction. Client(s) agree to release the makeup artist from liability for any skin complications due to allergic reactions.</p>
<p>____PAYMENT: The final balance is due on or before the day of the event before the makeup artist/hairstylist departs. The person(s) responsible for the entire balance of payment is the person(s) whose name(s) appear on this contract.</p>
</section>
<section>
<p>I, <span class="client-name">{{.Client}}</span>, understand and agree to pay the non-refundable security deposit to secure the appointment(s) for my event party and myself. I agree to pay the complete balance for my party on the day of the event as listed in this contract on or before my event day. I understand and will comply with all policies as listed in this contract. I understand that no refunds will be given for members of the party who miss their appointments on the day of the event. I also understand that I am responsible for balances from any members of my party who fail to provide payment. I understand that I will be liable for payment on any missed appointments.</p>
</section>
<section>
<div class="heading">Event Summary</div>
<div>Client: <strong>{{.Client}}</strong></div>
<div>Event type: <strong>{{.EventType}}</strong></div>
<div>Service date: <strong>{{.ServiceDate}}</strong></div>
<div>Party size: <strong>{{.PartySize}}</strong></div>
<div>Services: <strong>{{.Services}}</strong></div>
<div>Location: <strong>{{.Location}}</strong></div>
</section>
<section>
<div class="heading">Totals</div>
<div>Total Amount Due: <strong>{{.Total}}</strong></div>
<div>Deposit: <strong>{{.Deposit}}</strong></div>
<div>Remaining Balance: <strong>{{.Balance}}</strong></div>
</section>
</article>
`))

func formatAddress(a models.Address) string {
	line := strings.TrimSpace(strings.Join(nonEmpty(a.Line1, a.Line2), " "))
	city := strings.Join(nonEmpty(a.City, a.State, a.Zip), ", ")
	return strings.Join(nonEmpty(line, city), ", ")
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RenderBody produces the contract document. Rendering is pure and
// idempotent: identical inputs yield byte-identical output.
func RenderBody(lead *models.Lead, items []models.ContractItem, depositCents int64) string {
	total := SumItemCents(items)
	balance := total - depositCents
	if balance < 0 {
		balance = 0
	}

	eventType := lead.EventType
	if eventType == "" {
		eventType = "—"
	}
	serviceDate := "—"
	if lead.ServiceDate != nil {
		serviceDate = lead.ServiceDate.Format("1/2/2006")
	}
	partySize := lead.PartySize
	if partySize < 1 {
		partySize = 1
	}
	var wants []string
	if lead.WantsMakeup {
		wants = append(wants, "Makeup")
	}
	if lead.WantsHair {
		wants = append(wants, "Hair")
	}
	services := strings.Join(wants, " & ")
	if services == "" {
		services = "—"
	}
	location := formatAddress(lead.Location)
	if location == "" {
		location = "—"
	}

	data := contractTemplateData{
		Business:    BusinessName(),
		Client:      lead.Name,
		EventType:   eventType,
		ServiceDate: serviceDate,
		PartySize:   partySize,
		Services:    services,
		Location:    location,
		Items:       items,
		Deposit:     utils.FormatUSD(depositCents),
		Total:       utils.FormatUSD(total),
		Balance:     utils.FormatUSD(balance),
	}

	var b strings.Builder
	if err := contractTmpl.Execute(&b, data); err != nil {
		// The template is static and the data contains no failing types;
		// an error here is a programming bug.
		panic(err)
	}
	return b.String()
}

// NewVersion builds the next draft contract for a lead. Version numbers are
// monotonic starting at 1; prior versions are never mutated.
func NewVersion(lead *models.Lead, items []models.ContractItem, depositCents int64) models.Contract {
	maxVersion := 0
	for _, c := range lead.Contracts {
		if c.Version > maxVersion {
			maxVersion = c.Version
		}
	}

	for i := range items {
		items[i].Position = i
		if items[i].PriceText == "" {
			items[i].PriceText = utils.PriceText(items[i].AmountCents, items[i].Unit)
		}
	}

	return models.Contract{
		LeadID:       lead.ID,
		Version:      maxVersion + 1,
		Template:     TemplateFor(lead),
		Body:         RenderBody(lead, items, depositCents),
		DepositCents: depositCents,
		TotalCents:   SumItemCents(items),
		Status:       models.ContractDraft,
		Items:        items,
		EsignFields:  DefaultEsignFields(),
	}
}

// MarkSent transitions a contract to sent. Callers dispatch the sign link
// first and only mark on confirmed dispatch.
func MarkSent(c *models.Contract, signURL string, now time.Time) error {
	if c.Status == models.ContractSigned {
		return utils.Conflictf("contract v%d is signed; create a new version instead", c.Version)
	}
	if c.Status == models.ContractVoid {
		return utils.Conflictf("contract v%d is void", c.Version)
	}
	c.Status = models.ContractSent
	c.SentAt = &now
	c.SignURL = signURL
	return nil
}

// RecordEsign captures field values and signs the contract. Every required
// field needs a non-empty value; on failure the missing field ids are
// reported and nothing changes. Signing is monotonic: an already-signed
// contract rejects the operation.
func RecordEsign(c *models.Contract, values map[string]string, now time.Time) error {
	if c.Status == models.ContractSigned {
		return utils.Conflictf("contract v%d is already signed", c.Version)
	}
	if !c.MaySign() {
		return utils.Conflictf("contract v%d cannot be signed in status %s", c.Version, c.Status)
	}

	var missing []string
	for _, f := range c.EsignFields {
		if f.Required && strings.TrimSpace(values[f.FieldID]) == "" {
			missing = append(missing, f.FieldID)
		}
	}
	if len(missing) > 0 {
		return utils.ValidationFields("missing required e-sign fields", missing)
	}

	for i := range c.EsignFields {
		if v, ok := values[c.EsignFields[i].FieldID]; ok {
			c.EsignFields[i].CapturedValue = strings.TrimSpace(v)
		}
	}
	c.Status = models.ContractSigned
	c.SignedAt = &now
	c.DigitalStamp = fmt.Sprintf("stamp_%s_%d", c.ID, now.UnixMilli())
	return nil
}
