package services

import (
	"context"
	"testing"

	"parkmate/internal/common"
	"parkmate/internal/models"
	"parkmate/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testUsersTable = "ParkMateUsers"

type AllocatorTestSuite struct {
	suite.Suite
	store     *store.MemoryStore
	allocator DisplayIDAllocator
	ctx       context.Context
}

func (suite *AllocatorTestSuite) SetupTest() {
	suite.store = store.NewMemoryStore("userId")
	suite.allocator = NewDisplayIDAllocator(suite.store, testUsersTable)
	suite.ctx = context.Background()
}

func TestAllocatorTestSuite(t *testing.T) {
	suite.Run(t, new(AllocatorTestSuite))
}

func (suite *AllocatorTestSuite) seedInspector(inspectorID string) {
	err := suite.store.PutItem(suite.ctx, testUsersTable, store.Item{
		"userId":      inspectorID,
		"inspectorId": inspectorID,
		"userType":    string(models.UserTypeInspector),
	})
	require.NoError(suite.T(), err)
}

func (suite *AllocatorTestSuite) TestNext_EmptyCategorySeedsAtOne() {
	id, err := suite.allocator.Next(suite.ctx, models.UserTypeInspector)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ins0001", id)

	officerID, err := suite.allocator.Next(suite.ctx, models.UserTypeMCOfficer)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "MCC001", officerID)
}

func (suite *AllocatorTestSuite) TestNext_IgnoresGaps() {
	suite.seedInspector("Ins0001")
	suite.seedInspector("Ins0003")

	id, err := suite.allocator.Next(suite.ctx, models.UserTypeInspector)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ins0004", id)
}

func (suite *AllocatorTestSuite) TestNext_MonotonicAfterWrite() {
	first, err := suite.allocator.Next(suite.ctx, models.UserTypeInspector)
	require.NoError(suite.T(), err)
	suite.seedInspector(first)

	second, err := suite.allocator.Next(suite.ctx, models.UserTypeInspector)
	assert.NoError(suite.T(), err)
	assert.Greater(suite.T(), second, first)
	assert.Equal(suite.T(), "Ins0002", second)
}

func (suite *AllocatorTestSuite) TestNext_ReservationHoldsWithoutRecord() {
	// First allocation reserves Ins0001 but the record is never written.
	first, err := suite.allocator.Next(suite.ctx, models.UserTypeInspector)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ins0001", first)

	// The next allocation must not hand out the reserved number again.
	second, err := suite.allocator.Next(suite.ctx, models.UserTypeInspector)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ins0002", second)
}

func (suite *AllocatorTestSuite) TestNext_ConflictAdvancesCandidate() {
	suite.seedInspector("Ins0001")

	// A concurrent add already reserved Ins0002.
	err := suite.store.PutItemIfAbsent(suite.ctx, testUsersTable, store.Item{
		"userId":   "Ins0002",
		"userType": string(models.UserTypeIDReservation),
		"category": string(models.UserTypeInspector),
	})
	require.NoError(suite.T(), err)

	id, err := suite.allocator.Next(suite.ctx, models.UserTypeInspector)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ins0003", id)
}

func (suite *AllocatorTestSuite) TestNext_IgnoresMalformedIDs() {
	suite.seedInspector("Ins0002")
	err := suite.store.PutItem(suite.ctx, testUsersTable, store.Item{
		"userId":      "legacy-row",
		"inspectorId": "INSPECTOR-9",
		"userType":    string(models.UserTypeInspector),
	})
	require.NoError(suite.T(), err)

	id, err := suite.allocator.Next(suite.ctx, models.UserTypeInspector)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ins0003", id)
}

func (suite *AllocatorTestSuite) TestNext_CategoriesAreIndependent() {
	suite.seedInspector("Ins0007")

	officerID, err := suite.allocator.Next(suite.ctx, models.UserTypeMCOfficer)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "MCC001", officerID)
}

func (suite *AllocatorTestSuite) TestNext_UnknownCategory() {
	_, err := suite.allocator.Next(suite.ctx, models.UserTypeVehicleOwner)
	require.Error(suite.T(), err)
	var cerr *common.Error
	require.ErrorAs(suite.T(), err, &cerr)
	assert.Equal(suite.T(), common.KindValidation, cerr.Kind)
}
