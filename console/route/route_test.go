package route

import (
	"testing"

	"github.com/relayforge/gateway-console/console/identity"
	"github.com/relayforge/gateway-console/console/siteinfo"
)

func site(mode siteinfo.Mode) *siteinfo.Config {
	return &siteinfo.Config{Mode: mode, Registration: siteinfo.RegistrationOpen}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		snap     Snapshot
		expected Decision
	}{
		// Admin paths depend only on the admin credential.
		{
			"admin path without credential",
			Snapshot{Path: "/admin"},
			Decision{Kind: RenderAdminLogin},
		},
		{
			"admin path with credential",
			Snapshot{AdminCredential: true, Path: "/admin"},
			Decision{Kind: RenderAdminConsole},
		},
		{
			"admin subpath with credential",
			Snapshot{AdminCredential: true, Path: "/admin/channels"},
			Decision{Kind: RenderAdminConsole},
		},
		{
			"admin path ignores unresolved site",
			Snapshot{AdminCredential: true, Site: nil, Path: "/admin"},
			Decision{Kind: RenderAdminConsole},
		},
		{
			"admin login ignores user credential",
			Snapshot{UserCredential: true, Identity: identity.Present, Site: site(siteinfo.ModeService), Path: "/admin"},
			Decision{Kind: RenderAdminLogin},
		},

		// Unresolved site configuration suspends everything non-admin.
		{
			"nil site renders nothing at root",
			Snapshot{Path: "/"},
			Decision{Kind: RenderNothing},
		},
		{
			"nil site renders nothing on user path",
			Snapshot{UserCredential: true, Identity: identity.Present, Path: "/user"},
			Decision{Kind: RenderNothing},
		},
		{
			"nil site renders nothing on login",
			Snapshot{Path: "/login"},
			Decision{Kind: RenderNothing},
		},

		// Personal mode has no public surface.
		{
			"personal mode root collapses to admin",
			Snapshot{Site: site(siteinfo.ModePersonal), Path: "/"},
			Decision{Kind: Redirect, Target: "/admin"},
		},
		{
			"personal mode login collapses to admin",
			Snapshot{Site: site(siteinfo.ModePersonal), Path: "/login"},
			Decision{Kind: Redirect, Target: "/admin"},
		},
		{
			"personal mode user path collapses to admin",
			Snapshot{UserCredential: true, Identity: identity.Present, Site: site(siteinfo.ModePersonal), Path: "/user/tokens"},
			Decision{Kind: Redirect, Target: "/admin"},
		},

		// Root routes by user credential and identity.
		{
			"root without credential goes to login",
			Snapshot{Site: site(siteinfo.ModeService), Path: "/"},
			Decision{Kind: Redirect, Target: "/login"},
		},
		{
			"root with unresolved identity holds",
			Snapshot{UserCredential: true, Identity: identity.Unresolved, Site: site(siteinfo.ModeService), Path: "/"},
			Decision{Kind: RenderNothing},
		},
		{
			"root with present identity goes to user",
			Snapshot{UserCredential: true, Identity: identity.Present, Site: site(siteinfo.ModeService), Path: "/"},
			Decision{Kind: Redirect, Target: "/user"},
		},
		{
			"root with absent identity goes to login",
			Snapshot{UserCredential: true, Identity: identity.Absent, Site: site(siteinfo.ModeService), Path: "/"},
			Decision{Kind: Redirect, Target: "/login"},
		},

		// User paths require a present identity.
		{
			"user path without credential goes to login",
			Snapshot{Site: site(siteinfo.ModeService), Path: "/user"},
			Decision{Kind: Redirect, Target: "/login"},
		},
		{
			"user path with unresolved identity holds",
			Snapshot{UserCredential: true, Identity: identity.Unresolved, Site: site(siteinfo.ModeService), Path: "/user"},
			Decision{Kind: RenderNothing},
		},
		{
			"user path with absent identity goes to login",
			Snapshot{UserCredential: true, Identity: identity.Absent, Site: site(siteinfo.ModeService), Path: "/user"},
			Decision{Kind: Redirect, Target: "/login"},
		},
		{
			"user subpath with present identity renders",
			Snapshot{UserCredential: true, Identity: identity.Present, Site: site(siteinfo.ModeService), Path: "/user/tokens"},
			Decision{Kind: RenderUserConsole},
		},

		// Logged-in users are bounced off the auth screens.
		{
			"logged-in user on login goes to user",
			Snapshot{UserCredential: true, Identity: identity.Present, Site: site(siteinfo.ModeService), Path: "/login"},
			Decision{Kind: Redirect, Target: "/user"},
		},
		{
			"logged-in user on register goes to user",
			Snapshot{UserCredential: true, Identity: identity.Present, Site: site(siteinfo.ModeService), Path: "/register"},
			Decision{Kind: Redirect, Target: "/user"},
		},
		{
			"unresolved identity on login stays public",
			Snapshot{UserCredential: true, Identity: identity.Unresolved, Site: site(siteinfo.ModeService), Path: "/login"},
			Decision{Kind: RenderPublic, Page: PageLogin},
		},

		// Public fallthrough.
		{
			"login renders public login",
			Snapshot{Site: site(siteinfo.ModeService), Path: "/login"},
			Decision{Kind: RenderPublic, Page: PageLogin},
		},
		{
			"register renders public register",
			Snapshot{Site: site(siteinfo.ModeService), Path: "/register"},
			Decision{Kind: RenderPublic, Page: PageRegister},
		},
		{
			"unknown path renders public login",
			Snapshot{Site: site(siteinfo.ModeShared), Path: "/pricing"},
			Decision{Kind: RenderPublic, Page: PageLogin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Decide(tt.snap)
			if result != tt.expected {
				t.Errorf("Decide(%+v) = %+v, expected %+v", tt.snap, result, tt.expected)
			}
		})
	}
}

// A decision is never both a redirect and a render, and redirect targets
// always point somewhere else.
func TestDecideOutcomeShape(t *testing.T) {
	modes := []*siteinfo.Config{nil, site(siteinfo.ModePersonal), site(siteinfo.ModeService), site(siteinfo.ModeShared)}
	paths := []string{"/", "/login", "/register", "/user", "/user/tokens", "/admin", "/admin/settings", "/pricing"}
	statuses := []identity.Status{identity.Unresolved, identity.Absent, identity.Present}

	for _, cfg := range modes {
		for _, path := range paths {
			for _, st := range statuses {
				for _, adminCred := range []bool{false, true} {
					for _, userCred := range []bool{false, true} {
						snap := Snapshot{
							AdminCredential: adminCred,
							UserCredential:  userCred,
							Identity:        st,
							Site:            cfg,
							Path:            path,
						}
						d := Decide(snap)
						if d.Kind == Redirect {
							if d.Target == "" {
								t.Errorf("redirect with empty target for %+v", snap)
							}
							if d.Target == path {
								t.Errorf("redirect to self for %+v", snap)
							}
						} else if d.Target != "" {
							t.Errorf("non-redirect with target %q for %+v", d.Target, snap)
						}
						if d.Kind != RenderPublic && d.Page != "" {
							t.Errorf("non-public decision carries page %q for %+v", d.Page, snap)
						}
					}
				}
			}
		}
	}
}

// Redirect chains settle: repeatedly applying Decide over a fixed snapshot
// reaches a render outcome in a bounded number of hops.
func TestDecideConverges(t *testing.T) {
	snaps := []Snapshot{
		{Site: site(siteinfo.ModePersonal), Path: "/"},
		{UserCredential: true, Identity: identity.Present, Site: site(siteinfo.ModeService), Path: "/"},
		{UserCredential: true, Identity: identity.Absent, Site: site(siteinfo.ModeService), Path: "/user"},
		{Site: site(siteinfo.ModeService), Path: "/"},
	}

	for _, snap := range snaps {
		hops := 0
		for {
			d := Decide(snap)
			if d.Kind != Redirect {
				break
			}
			snap.Path = d.Target
			hops++
			if hops > 4 {
				t.Fatalf("redirect chain did not settle for %+v", snap)
			}
		}
	}
}
