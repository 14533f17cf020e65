package models

import (
	"time"

	"github.com/google/uuid"
)

// APIUser is a caller allowed to use the HTTP API
type APIUser struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	KeyPrefix  string     `json:"key_prefix"`
	KeyHash    string     `json:"-"` // bcrypt hash, never serialized
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}
