package dto

type TaskItem struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	AssignedTo     string  `json:"assigned_to,omitempty"`
	AssignedToName string  `json:"assigned_to_name,omitempty"`
	CreatedBy      string  `json:"created_by,omitempty"`
	CreatedByName  string  `json:"created_by_name,omitempty"`
	Status         string  `json:"status"`
	StatusLabel    string  `json:"status_label"`
	SLADeadline    *string `json:"sla_deadline,omitempty"`
	SLAStatus      string  `json:"sla_status,omitempty"`
	SLALabel       string  `json:"sla_label,omitempty"`
	TimeRemaining  string  `json:"time_remaining,omitempty"`
	CompletedAt    *string `json:"completed_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// CreateTaskRequest carries the deadline as RFC 3339 text. Required fields
// are checked by the command layer so the error names the field.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description" binding:"max=65535"`
	AssignedTo  string `json:"assigned_to"`
	SLADeadline string `json:"sla_deadline"`
}

// UpdateTaskRequest is a partial update; absent fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
	AssignedTo  *string `json:"assigned_to"`
	SLADeadline *string `json:"sla_deadline"`
}

type TaskCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	AtRisk     int `json:"at_risk"`
}

type FeedHealth struct {
	Degraded  bool    `json:"degraded"`
	LastError string  `json:"last_error,omitempty"`
	Since     *string `json:"since,omitempty"`
}

type SessionState struct {
	Version   uint64     `json:"version"`
	AppliedAt *string    `json:"applied_at,omitempty"`
	Health    FeedHealth `json:"health"`
	Counts    TaskCounts `json:"counts"`
}
