package y360client

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"diskowner/domain/disk"
)

// coerceInt64 accepts a JSON number or a numeric JSON string. Absent, null and
// fractional values are rejected.
func coerceInt64(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
	} else {
		text = string(raw)
	}
	text = strings.TrimSpace(text)

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.Trunc(f) != f || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// coerceString renders a JSON string or number as text.
func coerceString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// identityFromAPI maps a whoami payload. Organization ids that are not integers
// are dropped.
func identityFromAPI(resp WhoAmIApiResponse) disk.Identity {
	orgIDs := make([]int64, 0, len(resp.OrgIDs))
	for _, raw := range resp.OrgIDs {
		if id, ok := coerceInt64(raw); ok {
			orgIDs = append(orgIDs, id)
		}
	}
	return disk.Identity{
		Login:  resp.Login,
		Scopes: disk.NewScopeSet(resp.Scopes...),
		OrgIDs: orgIDs,
	}
}

// ownerFromAccesses returns the first owner entry. The API is expected to list
// exactly one owner. complete is false when the owner entry lacks an integer
// account or organization id.
func ownerFromAccesses(accesses []AccessApiData) (owner disk.OwnerReference, found, complete bool) {
	for _, access := range accesses {
		if access.Type != accessTypeOwner {
			continue
		}
		userID, okUser := coerceInt64(access.ID)
		orgID, okOrg := coerceInt64(access.OrgID)
		if !okUser || !okOrg {
			return disk.OwnerReference{}, true, false
		}
		return disk.OwnerReference{UserID: userID, OrgID: orgID}, true, true
	}
	return disk.OwnerReference{}, false, false
}

func profileFromAPI(resp UserApiResponse) disk.UserProfile {
	profile := disk.UserProfile{
		ID:       coerceString(resp.ID),
		Nickname: resp.Nickname,
		Email:    resp.Email,
	}
	if resp.Name != nil {
		profile.FirstName = resp.Name.First
		profile.LastName = resp.Name.Last
		profile.MiddleName = resp.Name.Middle
	}
	return profile
}
