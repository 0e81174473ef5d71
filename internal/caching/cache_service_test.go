package caching

import (
	"context"
	"testing"
	"time"

	"parkmate/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CacheServiceTestSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	cache CacheService
	ctx   context.Context
}

func (suite *CacheServiceTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	require.NoError(suite.T(), err)
	suite.mr = mr
	suite.cache = NewRedisCacheService(mr.Addr(), "", 0)
	suite.ctx = context.Background()
}

func (suite *CacheServiceTestSuite) TearDownTest() {
	suite.mr.Close()
}

func TestCacheServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CacheServiceTestSuite))
}

func (suite *CacheServiceTestSuite) TestRosterRoundTrip() {
	records := []*models.UserRecord{
		{UserID: "Ins0001", UserType: models.UserTypeInspector, Name: "Nimal Perera"},
		{UserID: "Ins0002", UserType: models.UserTypeInspector, Name: "Kamal Silva"},
	}

	err := suite.cache.SetRoster(suite.ctx, models.UserTypeInspector, records, time.Minute)
	assert.NoError(suite.T(), err)

	got, err := suite.cache.GetRoster(suite.ctx, models.UserTypeInspector)
	assert.NoError(suite.T(), err)
	require.Len(suite.T(), got, 2)
	assert.Equal(suite.T(), "Nimal Perera", got[0].Name)
}

func (suite *CacheServiceTestSuite) TestGetRoster_Miss() {
	got, err := suite.cache.GetRoster(suite.ctx, models.UserTypeMCOfficer)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *CacheServiceTestSuite) TestInvalidateRoster() {
	records := []*models.UserRecord{{UserID: "MCC001", UserType: models.UserTypeMCOfficer}}
	require.NoError(suite.T(), suite.cache.SetRoster(suite.ctx, models.UserTypeMCOfficer, records, time.Minute))

	err := suite.cache.InvalidateRoster(suite.ctx, models.UserTypeMCOfficer)
	assert.NoError(suite.T(), err)

	got, err := suite.cache.GetRoster(suite.ctx, models.UserTypeMCOfficer)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *CacheServiceTestSuite) TestRosterExpires() {
	records := []*models.UserRecord{{UserID: "Ins0001", UserType: models.UserTypeInspector}}
	require.NoError(suite.T(), suite.cache.SetRoster(suite.ctx, models.UserTypeInspector, records, time.Minute))

	suite.mr.FastForward(2 * time.Minute)

	got, err := suite.cache.GetRoster(suite.ctx, models.UserTypeInspector)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *CacheServiceTestSuite) TestIsRateLimited() {
	for i := 0; i < 5; i++ {
		limited, err := suite.cache.IsRateLimited(suite.ctx, "login:10.0.0.1", 5, time.Minute)
		assert.NoError(suite.T(), err)
		assert.False(suite.T(), limited, "attempt %d should not be limited", i+1)
	}

	limited, err := suite.cache.IsRateLimited(suite.ctx, "login:10.0.0.1", 5, time.Minute)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), limited)

	// Another client is unaffected
	limited, err = suite.cache.IsRateLimited(suite.ctx, "login:10.0.0.2", 5, time.Minute)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), limited)
}
