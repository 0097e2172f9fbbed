package models

import "time"

// User represents a member of an organization (admin, planner, or viewer).
type User struct {
	ID          string     `json:"id"`
	OrgID       string     `json:"org_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	InviteToken *string    `json:"invite_token,omitempty"`
	InvitedAt   *time.Time `json:"invited_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
