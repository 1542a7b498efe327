// Package agents provides the four ecosystem roles: deer herd, grain field,
// hunting policy and the watcher that reports and advances the calendar.
package agents

import "github.com/talgya/grainsim/internal/engine"

// Roles, one per owned field of the world.
const (
	RoleDeer    engine.Role = "deer"
	RoleGrain   engine.Role = "grain"
	RoleHunter  engine.Role = "hunter"
	RoleWatcher engine.Role = "watcher"
)
