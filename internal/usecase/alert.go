package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carelink/carelink/internal/domain"
	"github.com/carelink/carelink/internal/email"
	"github.com/carelink/carelink/internal/metrics"
	"github.com/carelink/carelink/internal/repository"
)

var ErrMissingAlertFields = errors.New("user id and title are required")

type CreateAlertInput struct {
	UserID      string
	Title       string
	Description string
	Importance  int
	AlertType   string
}

type AlertUsecase struct {
	alerts      repository.AlertRepository
	connections repository.ConnectionRepository
	sender      email.Sender
	logger      *slog.Logger
}

func NewAlertUsecase(alerts repository.AlertRepository, connections repository.ConnectionRepository, sender email.Sender, logger *slog.Logger) *AlertUsecase {
	return &AlertUsecase{
		alerts:      alerts,
		connections: connections,
		sender:      sender,
		logger:      logger.With("component", "alert_usecase"),
	}
}

// Create records the alert and notifies every approved helper of the user.
// Notification is best-effort: a failed send is logged, never rolled back —
// the alert row is the source of truth, mail is just the nudge.
func (u *AlertUsecase) Create(ctx context.Context, input CreateAlertInput) (*domain.Alert, error) {
	if input.UserID == "" || input.Title == "" {
		return nil, ErrMissingAlertFields
	}

	alert, err := u.alerts.Create(ctx, repository.CreateAlertInput{
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Importance:  input.Importance,
		AlertType:   input.AlertType,
	})
	if err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	metrics.AlertsCreatedTotal.WithLabelValues(alert.AlertType).Inc()

	u.notifyHelpers(ctx, alert)
	return alert, nil
}

func (u *AlertUsecase) notifyHelpers(ctx context.Context, alert *domain.Alert) {
	conns, err := u.connections.FindApprovedByUser(ctx, alert.UserID)
	if err != nil {
		u.logger.ErrorContext(ctx, "list helpers for alert notification", "alert_id", alert.ID, "error", err)
		return
	}

	subject := fmt.Sprintf("[CareLink] Alert: %s", alert.Title)
	body := fmt.Sprintf(
		"<p>An alert was raised for someone you care for.</p><p><strong>%s</strong></p><p>%s</p>",
		alert.Title, alert.Description,
	)
	for _, c := range conns {
		if err := u.sender.Send(ctx, c.Party.Mail, subject, body); err != nil {
			u.logger.ErrorContext(ctx, "send alert notification", "alert_id", alert.ID, "helper_id", c.Party.ID, "error", err)
			metrics.NotificationEmailsTotal.WithLabelValues("helper", "error").Inc()
			continue
		}
		metrics.NotificationEmailsTotal.WithLabelValues("helper", "sent").Inc()
	}
}

func (u *AlertUsecase) Get(ctx context.Context, id string) (*domain.Alert, error) {
	return u.alerts.FindByID(ctx, id)
}

// ListForPrincipal returns the caller's own alerts for users, and the alerts
// of every connected user for helpers.
func (u *AlertUsecase) ListForPrincipal(ctx context.Context, principalID string, role domain.Role) ([]*domain.Alert, error) {
	switch role {
	case domain.RoleUser:
		return u.alerts.FindByUser(ctx, principalID)
	case domain.RoleHelper:
		return u.alerts.FindByHelper(ctx, principalID)
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// MarkChecked acknowledges an alert for the caller's side. Users may only
// acknowledge their own alerts; helpers only alerts of users they hold an
// approved connection with.
func (u *AlertUsecase) MarkChecked(ctx context.Context, alertID, principalID string, role domain.Role) error {
	alert, err := u.alerts.FindByID(ctx, alertID)
	if err != nil {
		return err
	}

	switch role {
	case domain.RoleUser:
		if alert.UserID != principalID {
			return domain.ErrForbidden
		}
		return u.alerts.MarkCheckedByUser(ctx, alertID, principalID)
	case domain.RoleHelper:
		conn, err := u.connections.FindActiveByUserAndHelper(ctx, alert.UserID, principalID)
		if err != nil {
			if errors.Is(err, domain.ErrConnectionNotFound) {
				return domain.ErrForbidden
			}
			return fmt.Errorf("check helper connection: %w", err)
		}
		if conn.Status != domain.ConnectionApproved {
			return domain.ErrForbidden
		}
		return u.alerts.MarkCheckedByHelper(ctx, alertID, principalID)
	default:
		return domain.ErrForbidden
	}
}
