package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"diskowner/domain/contracts"
	"diskowner/domain/disk"
)

// MockDirectoryGateway implements DirectoryGateway for testing
type MockDirectoryGateway struct {
	mock.Mock
}

var _ contracts.DirectoryGateway = (*MockDirectoryGateway)(nil)

func (m *MockDirectoryGateway) Identity(ctx context.Context) (disk.Identity, error) {
	args := m.Called(ctx)
	return args.Get(0).(disk.Identity), args.Error(1)
}

func (m *MockDirectoryGateway) ResourceOwner(ctx context.Context, locator disk.Locator) (disk.OwnerReference, error) {
	args := m.Called(ctx, locator)
	return args.Get(0).(disk.OwnerReference), args.Error(1)
}

func (m *MockDirectoryGateway) UserProfile(ctx context.Context, orgID, userID int64) (disk.UserProfile, error) {
	args := m.Called(ctx, orgID, userID)
	return args.Get(0).(disk.UserProfile), args.Error(1)
}

// GatewayFactory records the tokens it is asked to authenticate and hands out
// the gateway registered for each one.
type GatewayFactory struct {
	Gateways map[string]contracts.DirectoryGateway
	Tokens   []string
}

// NewGatewayFactory creates an empty factory.
func NewGatewayFactory() *GatewayFactory {
	return &GatewayFactory{Gateways: make(map[string]contracts.DirectoryGateway)}
}

// Register maps token to gateway.
func (f *GatewayFactory) Register(token string, gateway contracts.DirectoryGateway) *GatewayFactory {
	f.Gateways[token] = gateway
	return f
}

// Build satisfies contracts.GatewayFactory. Unknown tokens get a gateway that
// fails every call with an invalid token error.
func (f *GatewayFactory) Build(token string) contracts.DirectoryGateway {
	f.Tokens = append(f.Tokens, token)
	if gw, ok := f.Gateways[token]; ok {
		return gw
	}
	return rejectingGateway{}
}

type rejectingGateway struct{}

func (rejectingGateway) Identity(context.Context) (disk.Identity, error) {
	return disk.Identity{}, &disk.APIError{Op: "whoami", StatusCode: 401, Message: "invalid authorization token"}
}

func (rejectingGateway) ResourceOwner(context.Context, disk.Locator) (disk.OwnerReference, error) {
	return disk.OwnerReference{}, &disk.APIError{Op: "resource_owner", StatusCode: 401, Message: "invalid authorization token"}
}

func (rejectingGateway) UserProfile(context.Context, int64, int64) (disk.UserProfile, error) {
	return disk.UserProfile{}, &disk.APIError{Op: "user_profile", StatusCode: 401, Message: "invalid authorization token"}
}
