package mocks

import (
	"github.com/stretchr/testify/mock"

	"diskowner/domain/contracts"
)

// MockCredentialStore implements CredentialStore for testing
type MockCredentialStore struct {
	mock.Mock
}

var _ contracts.CredentialStore = (*MockCredentialStore)(nil)

func (m *MockCredentialStore) Exists() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCredentialStore) Load() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockCredentialStore) Save(token, orgID string) error {
	args := m.Called(token, orgID)
	return args.Error(0)
}

func (m *MockCredentialStore) Delete() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockCredentialStore) Mask(token string) string {
	args := m.Called(token)
	return args.String(0)
}

func (m *MockCredentialStore) Path() string {
	args := m.Called()
	return args.String(0)
}

// MemoryCredentialStore is an in-memory CredentialStore for flow tests.
type MemoryCredentialStore struct {
	Token   string
	OrgID   string
	Present bool
	Saves   int
	Deletes int
	SaveErr error
}

var _ contracts.CredentialStore = (*MemoryCredentialStore)(nil)

func (s *MemoryCredentialStore) Exists() bool { return s.Present }

func (s *MemoryCredentialStore) Load() (string, string, error) {
	if !s.Present {
		return "", "", nil
	}
	return s.Token, s.OrgID, nil
}

func (s *MemoryCredentialStore) Save(token, orgID string) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Token, s.OrgID, s.Present = token, orgID, true
	s.Saves++
	return nil
}

func (s *MemoryCredentialStore) Delete() error {
	s.Token, s.OrgID, s.Present = "", "", false
	s.Deletes++
	return nil
}

func (s *MemoryCredentialStore) Mask(token string) string {
	if len(token) < 12 {
		return "***"
	}
	return token[:9] + "..." + token[len(token)-4:]
}

func (s *MemoryCredentialStore) Path() string { return "/tmp/diskowner-test/.env" }
