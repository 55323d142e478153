package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"diskowner/domain/contracts"
	"diskowner/domain/disk"
	"diskowner/logging"
)

// SavedCredential is a complete record found in the credential store.
type SavedCredential struct {
	Token  string
	OrgID  string
	Masked string
}

// CredentialCheck is the outcome of validating a token against the identity endpoint.
type CredentialCheck struct {
	Identity disk.Identity
	Scopes   disk.ScopeCheck
}

// DefaultOrgID suggests the first organization of the token, or "" when the
// token lists none.
func (c *CredentialCheck) DefaultOrgID() string {
	if c == nil || len(c.Identity.OrgIDs) == 0 {
		return ""
	}
	return formatID(c.Identity.OrgIDs[0])
}

// NeedsOrgConfirmation reports whether orgID is outside a non-empty organization list.
func (c *CredentialCheck) NeedsOrgConfirmation(orgID int64) bool {
	return c != nil && len(c.Identity.OrgIDs) > 0 && !c.Identity.HasOrg(orgID)
}

// CredentialService validates, persists and reopens the operator's token.
type CredentialService struct {
	store      contracts.CredentialStore
	newGateway contracts.GatewayFactory
	logger     *logging.Logger
}

// NewCredentialService creates a credential service.
func NewCredentialService(store contracts.CredentialStore, newGateway contracts.GatewayFactory) *CredentialService {
	return &CredentialService{
		store:      store,
		newGateway: newGateway,
		logger:     logging.Default().WithComponent("credential_service"),
	}
}

// Saved returns the stored credential, or nil when there is none. An incomplete
// record is treated as absent and left for the next Persist to overwrite.
func (s *CredentialService) Saved() (*SavedCredential, error) {
	if !s.store.Exists() {
		return nil, nil
	}

	token, orgID, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load saved credential: %w", err)
	}

	if strings.TrimSpace(token) == "" || strings.TrimSpace(orgID) == "" {
		s.logger.Credentials("Ignoring incomplete credential record", "path", s.store.Path())
		return nil, nil
	}

	return &SavedCredential{
		Token:  token,
		OrgID:  orgID,
		Masked: s.store.Mask(token),
	}, nil
}

// Validate asks the identity endpoint about token and checks its scopes. Remote
// failures are returned as *disk.APIError.
func (s *CredentialService) Validate(ctx context.Context, token string) (*CredentialCheck, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, contracts.ErrEmptyToken
	}

	identity, err := s.newGateway(token).Identity(ctx)
	if err != nil {
		s.logger.Security("Token validation failed", "token", s.store.Mask(token), "error", err)
		return nil, err
	}

	check := &CredentialCheck{
		Identity: identity,
		Scopes:   disk.ValidateScopes(identity.Scopes),
	}

	s.logger.Credentials("Token validated",
		"login", identity.Login,
		"org_ids", identity.OrgIDs,
		"scopes", identity.Scopes.Sorted(),
		"scopes_valid", check.Scopes.Valid,
		"missing_scopes", check.Scopes.Missing)
	return check, nil
}

// Persist saves token with orgID and returns a gateway for the session.
func (s *CredentialService) Persist(token string, orgID int64) (contracts.DirectoryGateway, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, contracts.ErrEmptyToken
	}
	if err := s.store.Save(token, formatID(orgID)); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}
	return s.newGateway(token), nil
}

// Open returns a gateway for a saved credential without contacting the API.
func (s *CredentialService) Open(saved *SavedCredential) contracts.DirectoryGateway {
	return s.newGateway(saved.Token)
}

// ConfigPath is where the credential is stored.
func (s *CredentialService) ConfigPath() string {
	return s.store.Path()
}

// ParseOrgID validates operator input for an organization id.
func ParseOrgID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, contracts.ErrEmptyOrgID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", contracts.ErrOrgIDNotNumeric, raw)
	}
	return id, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
