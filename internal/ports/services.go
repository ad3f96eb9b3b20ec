package ports

import (
	"time"
)

// SignupRequest is the payload for account creation
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries a freshly issued token and the account id
type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// CreateTaskRequest is the payload for task creation
type CreateTaskRequest struct {
	Description string     `json:"description" validate:"required"`
	Priority    string     `json:"priority"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest is a partial update: nil fields are left unchanged.
// Pointer fields are the presence wrapper that distinguishes "not sent"
// from a zero value.
type UpdateTaskRequest struct {
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Priority    *string    `json:"priority"`
	Tags        *[]string  `json:"tags"`
	DueDate     *time.Time `json:"due_date"`
}

// DeleteResponse acknowledges a successful deletion
type DeleteResponse struct {
	Success bool `json:"success"`
}

// ChatRequest carries a new message plus the caller-held conversation
// history; the server keeps no conversation state of its own.
type ChatRequest struct {
	Message string        `json:"message" validate:"required"`
	History []ChatMessage `json:"history"`
}

// ChatResponse carries the provider's reply verbatim
type ChatResponse struct {
	Response string `json:"response"`
}

// TaskStats summarizes a user's productivity
type TaskStats struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	Pending        int            `json:"pending"`
	CompletionRate float64        `json:"completion_rate"`
	ByPriority     map[string]int `json:"by_priority"`
	ByTag          map[string]int `json:"by_tag"`
	Overdue        int            `json:"overdue"`
	DueSoon        int            `json:"due_soon"`
}
