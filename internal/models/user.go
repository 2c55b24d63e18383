package models

import (
	"time"
)

// User roles
// Role is an explicit claim checked at the token validation boundary,
// it must never be inferred from the account status
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             int64
	CreatedAt      time.Time
	Username       string
	Email          string
	HashedPassword string
	IsActive       bool
	Role           string
}
