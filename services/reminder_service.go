// services/reminder_service.go
package services

import (
	"fmt"
	"time"

	"glambook-backend/models"
	"glambook-backend/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// staleUnsignedAfter is how long a sent-but-unsigned contract waits before a
// reminder goes out.
const staleUnsignedAfter = 3 * 24 * time.Hour

// ReminderService runs the daily scan for overdue invoices and stale
// unsigned contracts and nudges clients over the messaging channel.
type ReminderService struct {
	db     *gorm.DB
	sender MessageSender
	log    *zap.Logger
}

func NewReminderService(db *gorm.DB, sender MessageSender, log *zap.Logger) *ReminderService {
	return &ReminderService{db: db, sender: sender, log: log}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendDailyReminders(time.Now())
	})

	c.Start()
	s.log.Info("reminder scheduler started")
}

func (s *ReminderService) SendDailyReminders(now time.Time) {
	s.log.Info("starting daily reminder processing")

	var leads []models.Lead
	if err := s.db.Preload("Invoices.Payments").Preload("Contracts").Find(&leads).Error; err != nil {
		s.log.Error("failed to fetch leads", zap.Error(err))
		return
	}

	alerts := BuildAlerts(leads, now)

	byID := make(map[string]*models.Lead, len(leads))
	for i := range leads {
		byID[leads[i].ID.String()] = &leads[i]
	}

	for _, item := range alerts.Overdue {
		lead := byID[item.LeadID.String()]
		if lead == nil {
			continue
		}
		msg := fmt.Sprintf(
			"Hi %s, a friendly reminder: invoice %s for %s is %d day(s) past due (balance %s). Thank you!",
			lead.Name, item.Number, utils.FormatUSD(item.TotalCents), item.DaysOverdue, utils.FormatUSD(item.BalanceCents),
		)
		s.dispatch(lead, "overdue_invoice", msg, now)
	}

	for _, item := range alerts.Unsigned {
		if item.SentAt == nil || now.Sub(*item.SentAt) < staleUnsignedAfter {
			continue
		}
		lead := byID[item.LeadID.String()]
		if lead == nil {
			continue
		}
		msg := fmt.Sprintf(
			"Hi %s, your contract is still waiting for a signature. Please complete it so we can lock in your date!",
			lead.Name,
		)
		s.dispatch(lead, "unsigned_contract", msg, now)
	}

	s.log.Info("daily reminder processing completed",
		zap.Int("overdue", alerts.OverdueCount),
		zap.Int("unsigned", alerts.UnsignedCount),
	)
}

func (s *ReminderService) dispatch(lead *models.Lead, kind, message string, now time.Time) {
	channel, err := s.sender.Send(lead.Phone, message)

	status := "sent"
	errorMsg := ""
	if err != nil {
		s.log.Warn("reminder dispatch failed",
			zap.String("lead", lead.ID.String()),
			zap.String("kind", kind),
			zap.Error(err),
		)
		status = "failed"
		errorMsg = err.Error()
	}

	entry := models.NotificationLog{
		LeadID:       lead.ID,
		Kind:         kind,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       now,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Error("failed to log reminder", zap.String("lead", lead.ID.String()), zap.Error(err))
	}
}
