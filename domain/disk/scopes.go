package disk

import "sort"

// OAuth scopes the tool depends on. Write scopes imply the matching read scope.
const (
	ScopeDiskRead   = "cloud_api:disk.read"
	ScopeDiskWrite  = "cloud_api:disk.write"
	ScopeUsersRead  = "directory:read_users"
	ScopeUsersWrite = "directory:write_users"
)

// ScopeSet is the set of grants attached to a token.
type ScopeSet map[string]struct{}

// NewScopeSet builds a set from scope names; duplicates collapse.
func NewScopeSet(scopes ...string) ScopeSet {
	set := make(ScopeSet, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return set
}

// Has reports whether scope is granted.
func (s ScopeSet) Has(scope string) bool {
	_, ok := s[scope]
	return ok
}

// Sorted returns the scope names in lexical order.
func (s ScopeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for scope := range s {
		out = append(out, scope)
	}
	sort.Strings(out)
	return out
}

// scopeGroup is satisfied by any one of its accepted scopes. When unsatisfied it
// is reported by its canonical read scope.
type scopeGroup struct {
	name      string
	canonical string
	accepted  []string
}

var requiredScopeGroups = []scopeGroup{
	{name: "disk", canonical: ScopeDiskRead, accepted: []string{ScopeDiskRead, ScopeDiskWrite}},
	{name: "users", canonical: ScopeUsersRead, accepted: []string{ScopeUsersRead, ScopeUsersWrite}},
}

// ScopeCheck is the outcome of ValidateScopes.
type ScopeCheck struct {
	Valid   bool
	Missing []string
}

// ValidateScopes checks disk access and user directory access. Missing lists the
// canonical read scope of each unsatisfied group, disk first.
func ValidateScopes(scopes ScopeSet) ScopeCheck {
	var missing []string
	for _, group := range requiredScopeGroups {
		satisfied := false
		for _, scope := range group.accepted {
			if scopes.Has(scope) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, group.canonical)
		}
	}
	return ScopeCheck{Valid: len(missing) == 0, Missing: missing}
}
