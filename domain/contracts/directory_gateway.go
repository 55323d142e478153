package contracts

import (
	"context"

	"diskowner/domain/disk"
)

// DirectoryGateway defines the remote calls needed to resolve a public link owner.
// Failures are reported as *disk.APIError.
type DirectoryGateway interface {
	// Identity describes the token the gateway was built with.
	Identity(ctx context.Context) (disk.Identity, error)

	// ResourceOwner resolves the owning account and organization of a public resource.
	ResourceOwner(ctx context.Context, locator disk.Locator) (disk.OwnerReference, error)

	// UserProfile fetches a user from an organization's directory.
	UserProfile(ctx context.Context, orgID, userID int64) (disk.UserProfile, error)
}

// GatewayFactory builds a gateway authenticated with token.
type GatewayFactory func(token string) DirectoryGateway
