package health

import (
	"context"
	"sort"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

// Service encapsulates health-related checks.
type Service struct {
	checks map[string]Check
}

// NewService constructs a new health service. checks may be nil.
func NewService(checks map[string]Check) *Service {
	return &Service{checks: checks}
}

// Status runs every check. The payload is {"ok": bool} plus a "checks" map when any
// dependency is registered.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	out := map[string]any{"ok": true}
	if s == nil || len(s.checks) == 0 {
		return out, true
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	healthy := true
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			results[name] = "error"
			healthy = false
			continue
		}
		results[name] = "ok"
	}
	out["ok"] = healthy
	out["checks"] = results
	return out, healthy
}
