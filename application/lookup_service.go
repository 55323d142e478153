package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"diskowner/domain/contracts"
	"diskowner/domain/disk"
	"diskowner/logging"
)

// LookupStage names a step of the owner lookup for progress display.
type LookupStage string

const (
	StageCheckLink     LookupStage = "Checking link"
	StageFetchResource LookupStage = "Fetching resource information"
	StageFetchUser     LookupStage = "Fetching user data"
)

// ProgressReporter is notified as each lookup stage starts.
type ProgressReporter interface {
	StageStarted(stage LookupStage)
}

// LookupResult is the outcome of one lookup request. Err is set when any stage
// failed; the fields filled before the failure are kept.
type LookupResult struct {
	RequestID       string
	Input           string
	Kind            disk.LocatorKind
	Locator         disk.Locator
	Owner           disk.OwnerReference
	Profile         *disk.UserProfile
	ConfiguredOrgID string
	Duration        time.Duration
	Err             error
}

// Succeeded reports whether the profile was resolved.
func (r *LookupResult) Succeeded() bool {
	return r != nil && r.Err == nil && r.Profile != nil
}

// LookupService resolves the owner profile behind a share link.
type LookupService struct {
	gateway      contracts.DirectoryGateway
	store        contracts.CredentialStore
	logger       *logging.Logger
	newRequestID func() string
}

// NewLookupService creates a lookup pipeline over an authenticated gateway.
func NewLookupService(gateway contracts.DirectoryGateway, store contracts.CredentialStore) *LookupService {
	return &LookupService{
		gateway:      gateway,
		store:        store,
		logger:       logging.Default().WithComponent("lookup_service"),
		newRequestID: uuid.NewString,
	}
}

// Lookup normalizes input, resolves the resource owner and fetches the owner's
// profile. The profile is requested in the organization returned by the owner
// lookup. Lookup never fails as a call: errors are carried in the result.
func (s *LookupService) Lookup(ctx context.Context, input string, progress ProgressReporter) *LookupResult {
	start := time.Now()
	result := &LookupResult{
		RequestID: s.newRequestID(),
		Input:     strings.TrimSpace(input),
		Kind:      disk.Classify(input),
	}

	ctx = logging.ContextWithRequestID(ctx, result.RequestID)
	log := s.logger.WithContext(ctx)
	defer func() {
		result.Duration = time.Since(start)
		log.Performance("lookup", result.Duration)
	}()

	if s.gateway == nil {
		result.Err = contracts.ErrNoGateway
		return result
	}

	reportStage(progress, StageCheckLink)
	locator, err := disk.Normalize(input)
	if err != nil {
		log.Debug("Link rejected", "kind", result.Kind, "error", err)
		result.Err = err
		return result
	}
	result.Locator = locator
	log.Debug("Link normalized", "kind", result.Kind, "locator", locator)

	reportStage(progress, StageFetchResource)
	owner, err := s.gateway.ResourceOwner(ctx, locator)
	if err != nil {
		log.Info("Owner lookup failed", "error", err)
		result.Err = err
		return result
	}
	result.Owner = owner

	result.ConfiguredOrgID = s.configuredOrgID(log)
	if result.ConfiguredOrgID != "" && result.ConfiguredOrgID != formatID(owner.OrgID) {
		log.Debug("Resource belongs to a different organization than configured",
			"configured_org_id", result.ConfiguredOrgID,
			"resource_org_id", owner.OrgID)
	}

	reportStage(progress, StageFetchUser)
	profile, err := s.gateway.UserProfile(ctx, owner.OrgID, owner.UserID)
	if err != nil {
		log.Info("Profile lookup failed", "owner_uid", owner.UserID, "org_id", owner.OrgID, "error", err)
		result.Err = err
		return result
	}
	result.Profile = &profile

	log.Info("Owner resolved",
		"owner_uid", owner.UserID,
		"org_id", owner.OrgID,
		"login", profile.Nickname,
		"name", profile.FullName())
	return result
}

// configuredOrgID reads the saved organization. It is informational only.
func (s *LookupService) configuredOrgID(log *logging.Logger) string {
	if s.store == nil {
		return ""
	}
	_, orgID, err := s.store.Load()
	if err != nil {
		log.Debug("Configured organization unavailable", "error", err)
		return ""
	}
	return orgID
}

func reportStage(progress ProgressReporter, stage LookupStage) {
	if progress != nil {
		progress.StageStarted(stage)
	}
}
