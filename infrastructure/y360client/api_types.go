package y360client

import "encoding/json"

// ---------- Lite models ----------

// WhoAmIApiResponse is the identity payload of GET /whoami.
type WhoAmIApiResponse struct {
	Login  string            `json:"login"`
	Scopes []string          `json:"scopes"`
	OrgIDs []json.RawMessage `json:"orgIds"`
}

// PublicSettingsApiResponse is the admin view of a public resource.
// Only the access list is consumed.
type PublicSettingsApiResponse struct {
	Accesses []AccessApiData `json:"accesses"`
}

// AccessApiData is one entry of the access list. Identifiers arrive either as
// JSON numbers or numeric strings depending on the entry type, so they are
// kept raw and coerced by the mapper.
type AccessApiData struct {
	Type   string          `json:"type"`
	ID     json.RawMessage `json:"id"`
	OrgID  json.RawMessage `json:"org_id"`
	Rights []string        `json:"rights"`
}

// UserApiResponse is a directory user record.
type UserApiResponse struct {
	ID       json.RawMessage  `json:"id"`
	Nickname string           `json:"nickname"`
	Email    string           `json:"email"`
	Name     *UserNameApiData `json:"name"`
}

type UserNameApiData struct {
	First  string `json:"first"`
	Last   string `json:"last"`
	Middle string `json:"middle"`
}

// accessTypeOwner marks the owner entry in the access list.
const accessTypeOwner = "owner"
