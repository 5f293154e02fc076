// Package entity defines the JSON shapes exchanged with the shell UI.
package entity

import "github.com/relayforge/gateway-console/console/gateway"

// Msg is the standard response envelope for shell actions.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// SessionState is the full session snapshot plus the routing outcome for
// the shell's current path. The shell re-requests it on every route
// change and whenever the engine version moves.
type SessionState struct {
	// Decision is the routing outcome: nothing, admin-login,
	// admin-console, public, user-console.
	Decision string `json:"decision"`
	// Page selects the public screen when Decision is "public".
	Page string `json:"page,omitempty"`
	// Path is the reconciled logical path the shell should mirror into
	// the address bar (without pushing a new history entry).
	Path string `json:"path"`

	AdminLoggedIn  bool          `json:"adminLoggedIn"`
	UserLoggedIn   bool          `json:"userLoggedIn"`
	IdentityStatus string        `json:"identityStatus"`
	Identity       *gateway.User `json:"identity,omitempty"`

	SiteResolved         bool   `json:"siteResolved"`
	SiteMode             string `json:"siteMode,omitempty"`
	Registration         string `json:"registration,omitempty"`
	ExternalLoginEnabled bool   `json:"externalLoginEnabled"`
	RequireInviteCode    bool   `json:"requireInviteCode"`

	ShowAnnouncement bool   `json:"showAnnouncement"`
	Announcement     string `json:"announcement,omitempty"`

	Version uint64 `json:"version"`
}
