// Package model defines the persisted records of the gateway console: the
// two session credentials, console settings, and announcement dismissals.
package model

import "time"

// Role identifies which of the two console credentials a record belongs to.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known credential roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Credential holds an opaque bearer token for a role. At most one row per
// role exists at any time.
type Credential struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Role      Role      `json:"role" gorm:"unique"`
	Token     string    `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Setting is a key/value console setting.
type Setting struct {
	Id    int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" gorm:"unique"`
	Value string `json:"value"`
}

// NoticeDismissal records that the operator dismissed an announcement,
// keyed by a hash of the announcement text so edited announcements
// re-surface while identical re-fetches stay hidden.
type NoticeDismissal struct {
	Id          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Hash        string    `json:"hash" gorm:"unique"`
	DismissedAt time.Time `json:"dismissedAt"`
}
