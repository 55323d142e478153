package disk

import "strings"

// Identity describes the account behind an OAuth token.
type Identity struct {
	Login  string
	Scopes ScopeSet
	OrgIDs []int64
}

// HasOrg reports whether orgID is one of the token's organizations.
func (i Identity) HasOrg(orgID int64) bool {
	for _, id := range i.OrgIDs {
		if id == orgID {
			return true
		}
	}
	return false
}

// OwnerReference identifies the account and organization owning a public resource.
type OwnerReference struct {
	UserID int64
	OrgID  int64
}

// UserProfile is a directory user record. Name parts are optional.
type UserProfile struct {
	ID         string
	Nickname   string
	Email      string
	FirstName  string
	LastName   string
	MiddleName string
}

// FullName joins the available name parts as "Last First Middle".
func (p UserProfile) FullName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.LastName, p.FirstName, p.MiddleName} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}
