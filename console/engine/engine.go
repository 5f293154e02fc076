// Package engine owns the console session: the two credentials, the
// resolved identity, the site configuration, and the logical path. Async
// completions are applied as state transitions on a single task loop, and
// every render decision is recomputed from the resulting snapshot.
package engine

import (
	"context"

	"github.com/relayforge/gateway-console/console/gateway"
	"github.com/relayforge/gateway-console/console/identity"
	"github.com/relayforge/gateway-console/console/nav"
	"github.com/relayforge/gateway-console/console/notice"
	"github.com/relayforge/gateway-console/console/route"
	"github.com/relayforge/gateway-console/console/siteinfo"
	"github.com/relayforge/gateway-console/console/store"
	"github.com/relayforge/gateway-console/database/model"
	"github.com/relayforge/gateway-console/logger"

	"go.uber.org/atomic"
	"gorm.io/gorm"
)

// maxRedirectHops bounds redirect chains. The decision table cannot
// cycle; the guard keeps a future bug from spinning the loop.
const maxRedirectHops = 8

// Engine is the session and routing reconciliation core.
type Engine struct {
	store    *store.Store
	client   *gateway.Client
	resolver *identity.Resolver
	board    *notice.Board
	history  *nav.MemoryHistory
	nav      *nav.Synchronizer

	// site is owned by the task loop; nil until the probe settles.
	site *siteinfo.Config

	tasks   chan func()
	quit    chan struct{}
	version atomic.Uint64
}

// New wires an engine over the given database (nil for memory-only state)
// and gateway base URL. The task loop starts immediately; Start kicks off
// the boot-time probes.
func New(db *gorm.DB, gatewayURL string) *Engine {
	e := &Engine{
		store:   store.New(db),
		board:   notice.NewBoard(db),
		history: nav.NewMemoryHistory(),
		tasks:   make(chan func(), 16),
		quit:    make(chan struct{}),
	}
	e.nav = nav.NewSynchronizer(e.history)

	e.client = gateway.NewClient(gatewayURL)
	e.client.UnauthorizedHook = func(role model.Role) {
		if role.Valid() {
			logger.Info("credential rejected by gateway, clearing:", role)
			e.store.Clear(role)
		}
	}

	e.resolver = identity.New(e.client.Me, func() {
		e.store.Clear(model.RoleUser)
	}, e.bump)

	e.store.Subscribe(func(role model.Role, token string) {
		if role == model.RoleUser {
			e.resolver.CredentialChanged(token)
		}
		e.bump()
	})

	go e.loop()
	return e
}

func (e *Engine) loop() {
	for {
		select {
		case f := <-e.tasks:
			f()
		case <-e.quit:
			return
		}
	}
}

// do runs f on the task loop and waits for it to finish.
func (e *Engine) do(f func()) {
	done := make(chan struct{})
	select {
	case e.tasks <- func() { f(); close(done) }:
		<-done
	case <-e.quit:
	}
}

func (e *Engine) bump() {
	e.version.Inc()
}

// Version increases on every committed state transition; the shell polls
// it to learn when to re-request state.
func (e *Engine) Version() uint64 {
	return e.version.Load()
}

// Start restores the session: resolves the stored user credential and
// probes the site configuration exactly once. Until the probe settles,
// routing renders nothing outside /admin.
func (e *Engine) Start(ctx context.Context) {
	token, _ := e.store.Get(model.RoleUser)
	e.resolver.CredentialChanged(token)

	go func() {
		cfg := siteinfo.Probe(ctx, e.client)
		e.do(func() { e.site = cfg })
		e.bump()
	}()
}

// Stop terminates the task loop.
func (e *Engine) Stop() {
	close(e.quit)
}

// Client returns the gateway client.
func (e *Engine) Client() *gateway.Client {
	return e.client
}

// Store returns the credential store.
func (e *Engine) Store() *store.Store {
	return e.store
}

// IdentityStatus returns the current identity resolution status.
func (e *Engine) IdentityStatus() identity.Status {
	return e.resolver.Status()
}

// IdentityUser returns the resolved user record, nil unless present.
func (e *Engine) IdentityUser() *gateway.User {
	return e.resolver.User()
}

// SiteConfig returns the resolved site configuration, nil until the probe
// settles.
func (e *Engine) SiteConfig() *siteinfo.Config {
	var cfg *siteinfo.Config
	e.do(func() { cfg = e.site })
	return cfg
}

// snapshot assembles the routing input for the current session facts.
// Must run on the task loop.
func (e *Engine) snapshot() route.Snapshot {
	return route.Snapshot{
		AdminCredential: e.store.Has(model.RoleAdmin),
		UserCredential:  e.store.Has(model.RoleUser),
		Identity:        e.resolver.Status(),
		Site:            e.site,
		Path:            e.nav.Current(),
	}
}

// View adopts the shell-reported path without pushing history, then
// reconciles: redirect decisions are applied through the navigation
// synchronizer and re-decided until a render decision lands. It returns
// that decision and the final logical path for the shell to mirror.
func (e *Engine) View(path string) (route.Decision, string) {
	var decision route.Decision
	var finalPath string
	e.do(func() {
		e.history.Set(path)
		e.nav.SyncExternal()

		for hop := 0; ; hop++ {
			decision = route.Decide(e.snapshot())
			if decision.Kind != route.Redirect {
				break
			}
			if hop >= maxRedirectHops {
				logger.Errorf("redirect loop reconciling %q, rendering nothing", path)
				decision = route.Decision{Kind: route.RenderNothing}
				break
			}
			e.nav.Navigate(decision.Target)
		}
		finalPath = e.nav.Current()
	})
	return decision, finalPath
}

// AdminLogin exchanges the admin password for a credential and stores it.
func (e *Engine) AdminLogin(ctx context.Context, password string) error {
	token, err := e.client.AdminLogin(ctx, password)
	if err != nil {
		return err
	}
	e.store.Set(model.RoleAdmin, token)
	return nil
}

// UserLogin exchanges user account credentials for a credential and
// stores it; identity resolution starts from the store subscription.
func (e *Engine) UserLogin(ctx context.Context, account, password string) error {
	token, err := e.client.UserLogin(ctx, account, password)
	if err != nil {
		return err
	}
	e.store.Set(model.RoleUser, token)
	return nil
}

// Logout clears the credential for role. The upstream logout call is
// best-effort; the local credential is cleared regardless.
func (e *Engine) Logout(ctx context.Context, role model.Role) {
	if token, ok := e.store.Get(role); ok {
		var err error
		switch role {
		case model.RoleAdmin:
			err = e.client.AdminLogout(ctx, token)
		case model.RoleUser:
			err = e.client.UserLogout(ctx, token)
		}
		if err != nil {
			logger.Debugf("upstream %s logout failed: %v", role, err)
		}
	}
	e.store.Clear(role)
}

// Announcement returns the current announcement text and whether the
// shell should surface it.
func (e *Engine) Announcement() (string, bool) {
	var text string
	e.do(func() {
		if e.site != nil {
			text = e.site.Announcement
		}
	})
	return text, e.board.ShouldShow(text)
}

// DismissAnnouncement hides the current announcement until its text changes.
func (e *Engine) DismissAnnouncement() {
	text, _ := e.Announcement()
	e.board.Dismiss(text)
	e.bump()
}

// RecheckIdentity re-validates the stored user credential against the
// gateway, so a server-side revocation converges without a user action.
func (e *Engine) RecheckIdentity() {
	e.resolver.Recheck()
}
