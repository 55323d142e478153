package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"diskowner/domain/contracts"
	"diskowner/domain/disk"
	"diskowner/logging"
	"diskowner/test/mocks"
)

type recordingProgress struct {
	stages []LookupStage
}

func (p *recordingProgress) StageStarted(stage LookupStage) {
	p.stages = append(p.stages, stage)
}

func newLookupFixture() (*LookupService, *mocks.MockDirectoryGateway, *mocks.MockCredentialStore) {
	gateway := &mocks.MockDirectoryGateway{}
	store := &mocks.MockCredentialStore{}
	service := NewLookupService(gateway, store)
	service.newRequestID = func() string { return "req-1" }
	return service, gateway, store
}

func TestLookupService_Lookup_Success(t *testing.T) {
	// Arrange
	service, gateway, store := newLookupFixture()
	locator := disk.Locator("https://disk.yandex.ru/d/abc-123")
	profile := disk.UserProfile{ID: "500", Nickname: "ivanov", Email: "ivanov@example.org", FirstName: "Ivan"}

	gateway.On("ResourceOwner", mock.Anything, locator).Return(disk.OwnerReference{UserID: 500, OrgID: 7}, nil)
	gateway.On("UserProfile", mock.Anything, int64(7), int64(500)).Return(profile, nil)
	store.On("Load").Return("token", "7", nil)
	progress := &recordingProgress{}

	// Act
	result := service.Lookup(context.Background(), " https://disk.yandex.ru/d/abc-123 ", progress)

	// Assert
	require.True(t, result.Succeeded())
	assert.Equal(t, "req-1", result.RequestID)
	assert.Equal(t, "https://disk.yandex.ru/d/abc-123", result.Input)
	assert.Equal(t, disk.LocatorShort, result.Kind)
	assert.Equal(t, locator, result.Locator)
	assert.Equal(t, disk.OwnerReference{UserID: 500, OrgID: 7}, result.Owner)
	assert.Equal(t, profile, *result.Profile)
	assert.Equal(t, []LookupStage{StageCheckLink, StageFetchResource, StageFetchUser}, progress.stages)
	gateway.AssertExpectations(t)
}

func TestLookupService_Lookup_UsesResourceOrganization(t *testing.T) {
	service, gateway, store := newLookupFixture()
	locator := disk.Locator("dAEMkc1Q==")

	gateway.On("ResourceOwner", mock.Anything, locator).Return(disk.OwnerReference{UserID: 11, OrgID: 99}, nil)
	gateway.On("UserProfile", mock.Anything, int64(99), int64(11)).Return(disk.UserProfile{ID: "11"}, nil)
	store.On("Load").Return("token", "7", nil)

	result := service.Lookup(context.Background(), "dAEMkc1Q==", nil)

	require.NoError(t, result.Err)
	assert.Equal(t, "7", result.ConfiguredOrgID)
	gateway.AssertCalled(t, "UserProfile", mock.Anything, int64(99), int64(11))
	gateway.AssertNotCalled(t, "UserProfile", mock.Anything, int64(7), mock.Anything)
}

func TestLookupService_Lookup_ParseErrorStopsBeforeRemoteCalls(t *testing.T) {
	service, gateway, _ := newLookupFixture()
	progress := &recordingProgress{}

	result := service.Lookup(context.Background(), "not a link!", progress)

	var parseErr *disk.ParseError
	require.True(t, errors.As(result.Err, &parseErr))
	assert.False(t, result.Succeeded())
	assert.Equal(t, disk.LocatorUnknown, result.Kind)
	assert.Equal(t, []LookupStage{StageCheckLink}, progress.stages)
	gateway.AssertNotCalled(t, "ResourceOwner", mock.Anything, mock.Anything)
}

func TestLookupService_Lookup_OwnerFailure(t *testing.T) {
	service, gateway, _ := newLookupFixture()
	apiErr := &disk.APIError{Op: "resource_owner", Message: "resource owner not found in access data"}
	gateway.On("ResourceOwner", mock.Anything, mock.Anything).Return(disk.OwnerReference{}, apiErr)

	result := service.Lookup(context.Background(), "https://disk.yandex.ru/d/abc", nil)

	assert.Same(t, apiErr, result.Err)
	assert.Nil(t, result.Profile)
	gateway.AssertNotCalled(t, "UserProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestLookupService_Lookup_ProfileFailureKeepsOwner(t *testing.T) {
	service, gateway, store := newLookupFixture()
	apiErr := &disk.APIError{Op: "user_profile", StatusCode: 404, Message: "user with ID 5 not found in organization 6"}
	gateway.On("ResourceOwner", mock.Anything, mock.Anything).Return(disk.OwnerReference{UserID: 5, OrgID: 6}, nil)
	gateway.On("UserProfile", mock.Anything, int64(6), int64(5)).Return(disk.UserProfile{}, apiErr)
	store.On("Load").Return("", "", errors.New("unreadable"))

	result := service.Lookup(context.Background(), "https://disk.yandex.ru/d/abc", nil)

	assert.Same(t, apiErr, result.Err)
	assert.Equal(t, disk.OwnerReference{UserID: 5, OrgID: 6}, result.Owner)
	assert.Empty(t, result.ConfiguredOrgID)
}

func TestLookupService_Lookup_WithoutGateway(t *testing.T) {
	service := NewLookupService(nil, nil)

	result := service.Lookup(context.Background(), "https://disk.yandex.ru/d/abc", nil)

	assert.ErrorIs(t, result.Err, contracts.ErrNoGateway)
	assert.NotEmpty(t, result.RequestID)
}

func TestLookupService_Lookup_PropagatesRequestID(t *testing.T) {
	service, gateway, store := newLookupFixture()
	store.On("Load").Return("", "", nil)
	gateway.On("ResourceOwner", mock.MatchedBy(func(ctx context.Context) bool {
		id, ok := logging.RequestIDFromContext(ctx)
		return ok && id == "req-1"
	}), mock.Anything).Return(disk.OwnerReference{UserID: 1, OrgID: 2}, nil)
	gateway.On("UserProfile", mock.Anything, int64(2), int64(1)).Return(disk.UserProfile{ID: "1"}, nil)

	result := service.Lookup(context.Background(), "https://disk.yandex.ru/d/abc", nil)

	require.NoError(t, result.Err)
	gateway.AssertExpectations(t)
}
