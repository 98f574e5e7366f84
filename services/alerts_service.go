// services/alerts_service.go
// Derived-view engine: scans every lead and surfaces overdue invoices and
// unsigned wedding contracts for the dashboard header. Recomputed on each
// request, no cache.
package services

import (
	"sort"
	"strings"
	"time"

	"glambook-backend/models"

	"github.com/google/uuid"
)

type OverdueInvoiceItem struct {
	LeadID       uuid.UUID          `json:"leadId"`
	LeadName     string             `json:"leadName"`
	InvoiceID    uuid.UUID          `json:"invoiceId"`
	Number       string             `json:"number"`
	Kind         models.InvoiceKind `json:"kind"`
	DueAt        *time.Time         `json:"dueAt,omitempty"`
	TotalCents   int64              `json:"totalCents"`
	PaidCents    int64              `json:"paidCents"`
	BalanceCents int64              `json:"balanceCents"`
	DaysOverdue  int                `json:"daysOverdue"`
}

type UnsignedContractItem struct {
	LeadID     uuid.UUID             `json:"leadId"`
	LeadName   string                `json:"leadName"`
	ContractID uuid.UUID             `json:"contractId"`
	Template   string                `json:"template"`
	Version    int                   `json:"version"`
	Status     models.ContractStatus `json:"status"`
	SentAt     *time.Time            `json:"sentAt,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
}

type AlertsSummary struct {
	OverdueCount  int                    `json:"overdueCount"`
	UnsignedCount int                    `json:"unsignedCount"`
	Overdue       []OverdueInvoiceItem   `json:"overdue"`
	Unsigned      []UnsignedContractItem `json:"unsigned"`
}

// BuildAlerts aggregates over the full lead set. Overdue invoices sort most
// overdue first; unsigned wedding contracts sort oldest-sent-first, with
// never-sent contracts ahead of sent ones by creation time.
func BuildAlerts(leads []models.Lead, now time.Time) AlertsSummary {
	summary := AlertsSummary{
		Overdue:  []OverdueInvoiceItem{},
		Unsigned: []UnsignedContractItem{},
	}

	for li := range leads {
		lead := &leads[li]
		for ii := range lead.Invoices {
			inv := &lead.Invoices[ii]
			if !IsOverdue(inv, now) {
				continue
			}
			paid := inv.PaidCents()
			balance := inv.TotalCents - paid
			if balance < 0 {
				balance = 0
			}
			summary.Overdue = append(summary.Overdue, OverdueInvoiceItem{
				LeadID:       lead.ID,
				LeadName:     lead.Name,
				InvoiceID:    inv.ID,
				Number:       inv.Number,
				Kind:         inv.Kind,
				DueAt:        inv.DueAt,
				TotalCents:   inv.TotalCents,
				PaidCents:    paid,
				BalanceCents: balance,
				DaysOverdue:  DaysOverdue(inv, now),
			})
		}

		for ci := range lead.Contracts {
			c := &lead.Contracts[ci]
			if !strings.HasPrefix(c.Template, models.TemplateWeddingPrefix) {
				continue
			}
			if c.Status == models.ContractSigned || c.Status == models.ContractVoid {
				continue
			}
			summary.Unsigned = append(summary.Unsigned, UnsignedContractItem{
				LeadID:     lead.ID,
				LeadName:   lead.Name,
				ContractID: c.ID,
				Template:   c.Template,
				Version:    c.Version,
				Status:     c.Status,
				SentAt:     c.SentAt,
				CreatedAt:  c.CreatedAt,
			})
		}
	}

	sort.SliceStable(summary.Overdue, func(i, j int) bool {
		return summary.Overdue[i].DaysOverdue > summary.Overdue[j].DaysOverdue
	})
	sort.SliceStable(summary.Unsigned, func(i, j int) bool {
		a, b := summary.Unsigned[i], summary.Unsigned[j]
		if (a.SentAt == nil) != (b.SentAt == nil) {
			return a.SentAt == nil
		}
		if a.SentAt != nil && b.SentAt != nil && !a.SentAt.Equal(*b.SentAt) {
			return a.SentAt.Before(*b.SentAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	summary.OverdueCount = len(summary.Overdue)
	summary.UnsignedCount = len(summary.Unsigned)
	return summary
}
