package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

const MaxTitleLength = 255

// Validation reasons double as translation message ids.
const (
	ReasonRequired        = "fieldRequired"
	ReasonTooLong         = "fieldTooLong"
	ReasonUnknownAssignee = "unknownAssignee"
	ReasonDeadlineTooSoon = "deadlineTooSoon"
)

// Validator checks create and update intents before they reach the store.
type Validator struct {
	users   ports.UserDirectory
	minLead time.Duration
}

// NewValidator returns a Validator requiring deadlines at least minLead
// after now. A zero minLead only requires the deadline to be in the future.
func NewValidator(users ports.UserDirectory, minLead time.Duration) *Validator {
	if minLead < 0 {
		minLead = 0
	}
	return &Validator{users: users, minLead: minLead}
}

func (v *Validator) MinLead() time.Duration {
	return v.minLead
}

func (v *Validator) ValidateCreate(ctx context.Context, input domain.CreateTaskInput, now time.Time) error {
	if err := validateTitle(input.Title); err != nil {
		return err
	}
	if strings.TrimSpace(input.Description) == "" {
		return &domain.ValidationError{Field: "description", Reason: ReasonRequired}
	}
	if err := v.validateAssignee(ctx, input.AssignedTo); err != nil {
		return err
	}
	return v.validateDeadline(input.SLADeadline, now)
}

// ValidateUpdate checks only the fields the update sets. The deadline floor
// applies when the deadline moves; an untouched deadline may already be
// close or lapsed.
func (v *Validator) ValidateUpdate(ctx context.Context, current domain.Task, input domain.UpdateTaskInput, now time.Time) error {
	if input.IsEmpty() {
		return &domain.ValidationError{Field: "body", Reason: ReasonRequired}
	}
	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return err
		}
	}
	if input.Description != nil && strings.TrimSpace(*input.Description) == "" {
		return &domain.ValidationError{Field: "description", Reason: ReasonRequired}
	}
	if input.AssignedTo != nil && *input.AssignedTo != current.AssignedTo {
		if err := v.validateAssignee(ctx, *input.AssignedTo); err != nil {
			return err
		}
	}
	if input.SLADeadline != nil && !input.SLADeadline.Equal(current.SLADeadline) {
		return v.validateDeadline(*input.SLADeadline, now)
	}
	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &domain.ValidationError{Field: "title", Reason: ReasonRequired}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &domain.ValidationError{Field: "title", Reason: ReasonTooLong}
	}
	return nil
}

func (v *Validator) validateAssignee(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &domain.ValidationError{Field: "assigned_to", Reason: ReasonRequired}
	}
	if _, err := v.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return &domain.ValidationError{Field: "assigned_to", Reason: ReasonUnknownAssignee}
		}
		return domain.Unavailable("resolve assignee", err)
	}
	return nil
}

func (v *Validator) validateDeadline(deadline, now time.Time) error {
	if deadline.IsZero() {
		return &domain.ValidationError{Field: "sla_deadline", Reason: ReasonRequired}
	}
	if !deadline.After(now) || deadline.Sub(now) < v.minLead {
		return &domain.ValidationError{Field: "sla_deadline", Reason: ReasonDeadlineTooSoon}
	}
	return nil
}
