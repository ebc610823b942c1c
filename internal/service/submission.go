package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"genai_portfolio/internal/domain"
)

const (
	msgEmailRequired  = "Please enter your email address"
	msgEmailInvalid   = "Please enter a valid email address"
	msgFieldsRequired = "Please fill in all required fields"
)

type newsletterRequest struct {
	Email string `validate:"required,email"`
}

type contactRequest struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Message string `validate:"required"`
}

// SubmissionService handles the newsletter and contact forms.
type SubmissionService struct {
	subscribers SubscriberStore
	contacts    ContactStore
	txManager   TransactionManager
	publisher   Publisher
	validate    *validator.Validate
	logger      *slog.Logger
	now         func() time.Time
}

// NewSubmissionService wires the form use cases. publisher may be nil.
func NewSubmissionService(
	subscribers SubscriberStore,
	contacts ContactStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		subscribers: subscribers,
		contacts:    contacts,
		txManager:   txManager,
		publisher:   publisher,
		validate:    validator.New(),
		logger:      logger.With("service", "submission"),
		now:         time.Now,
	}
}

// Subscribe adds email to the newsletter. An inactive subscriber is
// reactivated; an active one is returned unchanged.
func (s *SubmissionService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	var (
		sub     *domain.Subscriber
		changed bool
	)
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.subscribers.GetByEmail(txCtx, email)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			now := s.now().UTC()
			sub = &domain.Subscriber{
				ID:        uuid.NewString(),
				Email:     email,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			changed = true
			if err := s.subscribers.Create(txCtx, sub); err != nil {
				return fmt.Errorf("create subscriber: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("get subscriber: %w", err)
		case existing.IsActive:
			sub = existing
			return nil
		}

		sub, err = s.subscribers.SetActive(txCtx, email, true)
		if err != nil {
			return fmt.Errorf("reactivate subscriber: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("newsletter subscription", "subscriber_id", sub.ID)
		s.publish(ctx, &domain.Event{Action: domain.ActionSubscribed, SubjectID: sub.ID, Payload: sub})
	}
	return sub, nil
}

// Unsubscribe deactivates email. Unknown or already inactive addresses are
// reported as not found.
func (s *SubmissionService) Unsubscribe(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return err
	}

	existing, err := s.subscribers.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get subscriber: %w", err)
	}
	if !existing.IsActive {
		return domain.NotFound("subscriber", email)
	}

	sub, err := s.subscribers.SetActive(ctx, email, false)
	if err != nil {
		return fmt.Errorf("deactivate subscriber: %w", err)
	}

	s.logger.Info("newsletter unsubscription", "subscriber_id", sub.ID)
	s.publish(ctx, &domain.Event{Action: domain.ActionUnsubscribed, SubjectID: sub.ID, Payload: sub})
	return nil
}

func (s *SubmissionService) ListSubscribers(ctx context.Context, activeOnly bool) ([]domain.Subscriber, error) {
	subs, err := s.subscribers.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return subs, nil
}

// SubmitContact stores a contact form with status new.
func (s *SubmissionService) SubmitContact(ctx context.Context, form domain.ContactForm) (*domain.ContactSubmission, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = normalizeEmail(form.Email)
	form.Message = strings.TrimSpace(form.Message)

	req := contactRequest{Name: form.Name, Email: form.Email, Message: form.Message}
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) == 1 && verrs[0].Tag() == "email" {
			return nil, domain.NewValidationError("email", msgEmailInvalid)
		}
		return nil, domain.NewValidationError("form", msgFieldsRequired)
	}

	sub := &domain.ContactSubmission{
		ID:        uuid.NewString(),
		Name:      form.Name,
		Email:     form.Email,
		Message:   form.Message,
		Status:    domain.ContactNew,
		CreatedAt: s.now().UTC(),
	}
	if subject := strings.TrimSpace(form.Subject); subject != "" {
		sub.Subject = &subject
	}

	if err := s.contacts.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create contact submission: %w", err)
	}

	s.logger.Info("contact submission received", "submission_id", sub.ID)
	s.publish(ctx, &domain.Event{Action: domain.ActionContactCreated, SubjectID: sub.ID, Payload: sub})
	return sub, nil
}

// ListContacts returns submissions newest first, optionally filtered by
// status.
func (s *SubmissionService) ListContacts(ctx context.Context, status domain.ContactStatus) ([]domain.ContactSubmission, error) {
	if status != "" && !status.Valid() {
		return nil, invalidStatus()
	}

	subs, err := s.contacts.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	return subs, nil
}

func (s *SubmissionService) UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.ContactSubmission, error) {
	if !status.Valid() {
		return nil, invalidStatus()
	}

	sub, err := s.contacts.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update contact status: %w", err)
	}
	return sub, nil
}

func (s *SubmissionService) checkEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("email", msgEmailRequired)
	}
	if err := s.validate.Struct(newsletterRequest{Email: email}); err != nil {
		return domain.NewValidationError("email", msgEmailInvalid)
	}
	return nil
}

func (s *SubmissionService) publish(ctx context.Context, event *domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "action", event.Action, "subject_id", event.SubjectID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidStatus() error {
	return domain.NewValidationError("status", "Status must be one of: new, read, responded, archived")
}
