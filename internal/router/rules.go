package router

import (
	"fmt"
	"net/http"
	"strings"
)

// Action names the destination a matched request is dispatched to.
type Action string

const (
	ActionHealth  Action = "health"
	ActionContact Action = "contact"
	ActionMetrics Action = "metrics"
	ActionProxy   Action = "proxy"
	ActionMedia   Action = "media"
	ActionSPA     Action = "spa"
	ActionNone    Action = "none"
)

// Rule matches requests by method and path. An empty Method matches
// any method; Exact requires the whole path, otherwise Path is a
// prefix.
type Rule struct {
	Method string
	Path   string
	Exact  bool
	Action Action
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	if r.Exact {
		return path == r.Path
	}
	return path == strings.TrimSuffix(r.Path, "/") || strings.HasPrefix(path, r.Path)
}

// Table is an ordered rule list evaluated top-down; the first matching
// rule wins. It is the single source of truth for the edge's dispatch
// order, replacing implicit middleware registration order.
type Table []Rule

// Match classifies one request. ActionNone means no rule claimed it.
func (t Table) Match(method, path string) Action {
	for _, rule := range t {
		if rule.matches(method, path) {
			return rule.Action
		}
	}
	return ActionNone
}

// Validate checks that every direct-handler rule precedes any proxy
// rule that would also match its path; otherwise the handler is
// unreachable.
func (t Table) Validate() error {
	for i, rule := range t {
		if rule.Action != ActionProxy {
			continue
		}
		for j := i + 1; j < len(t); j++ {
			direct := t[j]
			if direct.Action == ActionProxy || direct.Action == ActionSPA || direct.Action == ActionMedia {
				continue
			}
			if rule.matches(orAny(direct.Method), direct.Path) {
				return fmt.Errorf("rule %d (%s %s) is shadowed by proxy rule %d (%s)",
					j, direct.Method, direct.Path, i, rule.Path)
			}
		}
	}
	return nil
}

func orAny(method string) string {
	if method == "" {
		return http.MethodGet
	}
	return method
}

// DefaultTable is the production dispatch order: direct handlers
// first, then the API proxy, then static media, then the SPA fallback
// for any other GET.
func DefaultTable() Table {
	return Table{
		{Method: http.MethodGet, Path: "/api/health", Exact: true, Action: ActionHealth},
		{Method: http.MethodPost, Path: "/api/forward", Exact: true, Action: ActionContact},
		{Method: http.MethodGet, Path: "/metrics", Exact: true, Action: ActionMetrics},
		{Path: "/api/", Action: ActionProxy},
		{Method: http.MethodGet, Path: "/media/", Action: ActionMedia},
		{Method: http.MethodGet, Path: "/", Action: ActionSPA},
	}
}
