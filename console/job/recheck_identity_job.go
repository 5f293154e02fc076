// Package job contains the console's scheduled background jobs.
package job

import (
	"github.com/relayforge/gateway-console/console/engine"
)

// RecheckIdentityJob periodically re-validates the stored user credential
// against the gateway, so a server-side revocation converges without
// waiting for the next user action. Goes through the resolver's normal
// stale-rejection path.
type RecheckIdentityJob struct {
	engine *engine.Engine
}

func NewRecheckIdentityJob(e *engine.Engine) *RecheckIdentityJob {
	return &RecheckIdentityJob{engine: e}
}

// Run implements cron.Job.
func (j *RecheckIdentityJob) Run() {
	j.engine.RecheckIdentity()
}
