// Package route decides which screen the console renders for the current
// session snapshot. Decide is a pure function: it owns no state and
// expresses redirects as an outcome for the navigation layer to apply,
// never as a direct history mutation.
package route

import (
	"strings"

	"github.com/relayforge/gateway-console/console/identity"
	"github.com/relayforge/gateway-console/console/siteinfo"
)

// Snapshot is the input to a routing decision: the current values of the
// asynchronously-resolving session facts plus the logical path.
type Snapshot struct {
	AdminCredential bool
	UserCredential  bool
	Identity        identity.Status
	// Site is nil until the configuration probe settles.
	Site *siteinfo.Config
	Path string
}

// Kind is the outcome variant of a routing decision.
type Kind int

const (
	// RenderNothing suspends rendering until async facts settle.
	RenderNothing Kind = iota
	RenderAdminLogin
	RenderAdminConsole
	// RenderPublic renders the public surface; Page selects the screen.
	RenderPublic
	RenderUserConsole
	// Redirect navigates to Target and re-decides.
	Redirect
)

func (k Kind) String() string {
	switch k {
	case RenderNothing:
		return "nothing"
	case RenderAdminLogin:
		return "admin-login"
	case RenderAdminConsole:
		return "admin-console"
	case RenderPublic:
		return "public"
	case RenderUserConsole:
		return "user-console"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Page selects the public screen to render.
type Page string

const (
	PageLogin    Page = "login"
	PageRegister Page = "register"
)

// Decision is the single output of Decide for a snapshot.
type Decision struct {
	Kind   Kind
	Target string // redirect target, set only for Redirect
	Page   Page   // public page, set only for RenderPublic
}

func render(k Kind) Decision      { return Decision{Kind: k} }
func redirect(to string) Decision { return Decision{Kind: Redirect, Target: to} }
func public(p Page) Decision      { return Decision{Kind: RenderPublic, Page: p} }

// Decide maps a snapshot to a decision. Rules are checked in priority
// order, first match wins:
//
//  1. /admin paths depend only on the admin credential, so the admin
//     surface stays reachable even when the public probe fails.
//  2. Unresolved site configuration renders nothing.
//  3. Personal mode has no public surface; everything collapses to /admin.
//  4. Root routes by user credential and identity status.
//  5. /user paths require a present identity; unresolved identity renders
//     nothing rather than flashing the login screen.
//  6. A logged-in user on /login or /register is sent to /user.
//  7. Everything else renders the public surface.
func Decide(s Snapshot) Decision {
	if strings.HasPrefix(s.Path, "/admin") {
		if !s.AdminCredential {
			return render(RenderAdminLogin)
		}
		return render(RenderAdminConsole)
	}

	if s.Site == nil {
		return render(RenderNothing)
	}

	if s.Site.Mode == siteinfo.ModePersonal {
		return redirect("/admin")
	}

	if s.Path == "/" {
		if s.UserCredential && s.Identity == identity.Unresolved {
			return render(RenderNothing)
		}
		if s.UserCredential && s.Identity == identity.Present {
			return redirect("/user")
		}
		return redirect("/login")
	}

	if strings.HasPrefix(s.Path, "/user") {
		if !s.UserCredential {
			return redirect("/login")
		}
		switch s.Identity {
		case identity.Unresolved:
			return render(RenderNothing)
		case identity.Absent:
			return redirect("/login")
		}
		return render(RenderUserConsole)
	}

	if (s.Path == "/login" || s.Path == "/register") &&
		s.UserCredential && s.Identity == identity.Present {
		return redirect("/user")
	}

	if s.Path == "/register" {
		return public(PageRegister)
	}
	return public(PageLogin)
}
