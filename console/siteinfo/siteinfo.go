// Package siteinfo resolves the gateway's global operating configuration
// once per console boot.
package siteinfo

import (
	"context"

	"github.com/relayforge/gateway-console/console/gateway"
	"github.com/relayforge/gateway-console/logger"
)

// Mode is the gateway's deployment posture.
type Mode string

const (
	ModePersonal Mode = "personal" // single operator, no public surface
	ModeService  Mode = "service"
	ModeShared   Mode = "shared"
)

// RegistrationMode is the gateway's signup policy.
type RegistrationMode string

const (
	RegistrationOpen     RegistrationMode = "open"
	RegistrationClosed   RegistrationMode = "closed"
	RegistrationExternal RegistrationMode = "external"
)

// Config is the resolved site configuration. A nil *Config means the probe
// has not settled yet, which is a distinct state from any resolved mode.
type Config struct {
	Mode                 Mode
	Registration         RegistrationMode
	ExternalLoginEnabled bool
	RequireInviteCode    bool
	Announcement         string
}

// Fallback is the restrictive configuration committed when the probe
// fails: no public surface is exposed against unverified configuration.
func Fallback() *Config {
	return &Config{
		Mode:         ModePersonal,
		Registration: RegistrationClosed,
	}
}

// FromResponse maps the gateway's site-info payload onto a Config.
func FromResponse(info *gateway.SiteInfo) *Config {
	cfg := &Config{
		Mode:                 Mode(info.SiteMode),
		Registration:         RegistrationMode(info.RegistrationMode),
		ExternalLoginEnabled: info.LinuxDoEnabled,
		RequireInviteCode:    info.RequireInviteCode,
		Announcement:         info.Announcement,
	}
	if cfg.Mode == "" {
		cfg.Mode = ModePersonal
	}
	if cfg.Registration == "" {
		cfg.Registration = RegistrationClosed
	}
	return cfg
}

// Probe fetches the site configuration, committing the restrictive
// fallback on any failure. Probe failures are infrastructural and are
// logged, never surfaced to the operator as an error.
func Probe(ctx context.Context, client *gateway.Client) *Config {
	info, err := client.GetSiteInfo(ctx)
	if err != nil {
		logger.Warning("site-info probe failed, falling back to personal mode:", err)
		return Fallback()
	}
	return FromResponse(info)
}
