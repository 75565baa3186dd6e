package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

const ReasonInvalidDeadline = "invalidDeadline"

func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	input := domain.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  strings.TrimSpace(req.AssignedTo),
	}

	if value := strings.TrimSpace(req.SLADeadline); value != "" {
		deadline, err := parseDeadline(value)
		if err != nil {
			return domain.CreateTaskInput{}, err
		}
		input.SLADeadline = deadline
	}

	return input, nil
}

// BuildUpdateTaskInput maps a partial update. raw is the decoded body and
// tells absent fields from explicit nulls; nulls are rejected since every
// editable field is required on a task.
func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	for _, field := range updatableFields {
		if hasJSONField(raw, field) && isJSONNull(raw[field]) {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
	}

	input := domain.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}

	if req.AssignedTo != nil {
		value := strings.TrimSpace(*req.AssignedTo)
		input.AssignedTo = &value
	}

	if req.SLADeadline != nil {
		deadline, err := parseDeadline(strings.TrimSpace(*req.SLADeadline))
		if err != nil {
			return domain.UpdateTaskInput{}, err
		}
		input.SLADeadline = &deadline
	}

	return input, nil
}

// ParseStatusFilter reads the optional ?status= query value.
func ParseStatusFilter(value string) (*domain.TaskStatus, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	status, err := domain.ParseTaskStatus(value)
	if err != nil {
		return nil, &domain.ValidationError{Field: "status", Reason: "invalidStatus"}
	}
	return &status, nil
}

var updatableFields = []string{"title", "description", "assigned_to", "sla_deadline"}

func parseDeadline(value string) (time.Time, error) {
	deadline, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "sla_deadline", Reason: ReasonInvalidDeadline}
	}
	return deadline.UTC(), nil
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	for _, field := range updatableFields {
		if hasJSONField(raw, field) {
			return true
		}
	}
	return false
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
