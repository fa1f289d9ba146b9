package models

import "github.com/google/uuid"

// RoleAdmin is the identity provider role allowed to moderate.
const RoleAdmin = "admin"

// Caller is the verified identity behind a request. The zero value is anonymous.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

func (c Caller) Authenticated() bool { return c.UserID != uuid.Nil }

func (c Caller) IsAdmin() bool { return c.Authenticated() && c.Role == RoleAdmin }
