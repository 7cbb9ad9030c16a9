package escalator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/email"
	"github.com/carelink/carelink/internal/metrics"
	"github.com/carelink/carelink/internal/repository"
	"github.com/robfig/cron/v3"
)

// Escalator periodically sweeps for alerts that no helper acknowledged
// within the cutoff window and notifies the user's emergency contacts.
// The escalated_at stamp is claimed with a conditional update, so running
// more than one instance never double-sends.
type Escalator struct {
	alerts     repository.AlertRepository
	contacts   repository.ContactRepository
	sender     email.Sender
	logger     *slog.Logger
	schedule   cron.Schedule
	cutoff     time.Duration
	batchLimit int
}

func New(
	alerts repository.AlertRepository,
	contacts repository.ContactRepository,
	sender email.Sender,
	logger *slog.Logger,
	cronExpr string,
	cutoff time.Duration,
	batchLimit int,
) (*Escalator, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse escalation cron %q: %w", cronExpr, err)
	}
	return &Escalator{
		alerts:     alerts,
		contacts:   contacts,
		sender:     sender,
		logger:     logger.With("component", "escalator"),
		schedule:   schedule,
		cutoff:     cutoff,
		batchLimit: batchLimit,
	}, nil
}

func (e *Escalator) Start(ctx context.Context) {
	e.logger.Info("escalator started", "cutoff", e.cutoff, "batch_limit", e.batchLimit)

	timer := time.NewTimer(time.Until(e.schedule.Next(time.Now())))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("escalator shut down")
			return
		case <-timer.C:
			e.Sweep(ctx)
			timer.Reset(time.Until(e.schedule.Next(time.Now())))
		}
	}
}

// Sweep runs one escalation pass. Exported so the command can also run it
// once with -once for manual operation.
func (e *Escalator) Sweep(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.EscalationSweepDuration.Observe(time.Since(start).Seconds())
	}()

	cutoff := time.Now().Add(-e.cutoff)

	stale, err := e.alerts.FindUnescalated(ctx, cutoff, e.batchLimit)
	if err != nil {
		e.logger.Error("find unescalated alerts", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	escalated := 0
	for _, alert := range stale {
		claimed, err := e.alerts.MarkEscalated(ctx, alert.ID)
		if err != nil {
			e.logger.Error("mark alert escalated", "alert_id", alert.ID, "error", err)
			continue
		}
		if !claimed {
			// Another instance got there first, or a helper checked it
			// between the find and the claim.
			continue
		}

		e.notifyContacts(ctx, alert)
		metrics.AlertEscalationsTotal.Inc()
		escalated++
	}

	if escalated > 0 {
		e.logger.Info("escalated unanswered alerts", "count", escalated, "scanned", len(stale))
	}
}

func (e *Escalator) notifyContacts(ctx context.Context, alert *domain.Alert) {
	contacts, err := e.contacts.FindByUser(ctx, alert.UserID)
	if err != nil {
		e.logger.Error("load emergency contacts", "user_id", alert.UserID, "error", err)
		return
	}

	subject := fmt.Sprintf("Unanswered alert: %s", alert.Title)
	body := fmt.Sprintf(
		"An alert raised at %s has not been checked by any helper.<br><br><b>%s</b><br>%s",
		alert.CreatedAt.Format(time.RFC1123), alert.Title, alert.Description,
	)

	sent := 0
	for _, contact := range contacts {
		if contact.Mail == nil || *contact.Mail == "" {
			continue
		}
		if err := e.sender.Send(ctx, *contact.Mail, subject, body); err != nil {
			e.logger.Error("send escalation email", "alert_id", alert.ID, "contact", contact.Name, "error", err)
			metrics.NotificationEmailsTotal.WithLabelValues("emergency_contact", "error").Inc()
			continue
		}
		metrics.NotificationEmailsTotal.WithLabelValues("emergency_contact", "sent").Inc()
		sent++
	}

	if sent == 0 {
		e.logger.Warn("alert escalated but no reachable emergency contacts", "alert_id", alert.ID, "user_id", alert.UserID)
	}
}
