package helpers

import (
	"github.com/stretchr/testify/mock"

	"diskowner/domain/disk"
	"diskowner/test/mocks"
)

// Tokens used across flow tests. Both are long enough to be masked.
const (
	SavedToken = "y0_AgAAAAAsavedtoken0000"
	NewToken   = "y0_AgAAAAAfreshtoken1111"
)

// MockDirectory holds a gateway mock and the factory that hands it out.
type MockDirectory struct {
	Gateway *mocks.MockDirectoryGateway
	Factory *mocks.GatewayFactory
}

// NewMockDirectory registers one gateway mock for each token.
func NewMockDirectory(tokens ...string) *MockDirectory {
	m := &MockDirectory{
		Gateway: &mocks.MockDirectoryGateway{},
		Factory: mocks.NewGatewayFactory(),
	}
	for _, token := range tokens {
		m.Factory.Register(token, m.Gateway)
	}
	return m
}

// FullAccessIdentity is a token identity that passes scope validation.
func FullAccessIdentity(orgIDs ...int64) disk.Identity {
	return disk.Identity{
		Login:  "admin",
		Scopes: disk.NewScopeSet(disk.ScopeDiskRead, disk.ScopeUsersRead),
		OrgIDs: orgIDs,
	}
}

// ExpectIdentity sets up expectations for a successful token check
func (m *MockDirectory) ExpectIdentity(identity disk.Identity) {
	m.Gateway.On("Identity", mock.Anything).Return(identity, nil).Once()
}

// ExpectIdentityFailure sets up expectations for a rejected token check
func (m *MockDirectory) ExpectIdentityFailure(err error) {
	m.Gateway.On("Identity", mock.Anything).Return(disk.Identity{}, err).Once()
}

// ExpectOwner sets up expectations for a resolved resource owner
func (m *MockDirectory) ExpectOwner(locator disk.Locator, owner disk.OwnerReference) {
	m.Gateway.On("ResourceOwner", mock.Anything, locator).Return(owner, nil)
}

// ExpectOwnerFailure sets up expectations for a failed owner lookup
func (m *MockDirectory) ExpectOwnerFailure(locator disk.Locator, err error) {
	m.Gateway.On("ResourceOwner", mock.Anything, locator).Return(disk.OwnerReference{}, err)
}

// ExpectProfile sets up expectations for a successful profile fetch
func (m *MockDirectory) ExpectProfile(owner disk.OwnerReference, profile disk.UserProfile) {
	m.Gateway.On("UserProfile", mock.Anything, owner.OrgID, owner.UserID).Return(profile, nil)
}

// SavedStore returns an in-memory store holding a complete credential.
func SavedStore(token, orgID string) *mocks.MemoryCredentialStore {
	return &mocks.MemoryCredentialStore{Token: token, OrgID: orgID, Present: true}
}
