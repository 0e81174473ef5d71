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
	"golang.org/x/crypto/bcrypt"
)

type InspectorServiceTestSuite struct {
	suite.Suite
	store *store.MemoryStore
	svc   InspectorService
	ctx   context.Context
}

func (suite *InspectorServiceTestSuite) SetupTest() {
	suite.store = store.NewMemoryStore("userId")
	allocator := NewDisplayIDAllocator(suite.store, testUsersTable)
	suite.svc = NewInspectorService(suite.store, nil, testUsersTable, allocator)
	suite.ctx = context.Background()
}

func TestInspectorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InspectorServiceTestSuite))
}

func (suite *InspectorServiceTestSuite) addInspector(name, email string) *models.UserRecord {
	rec, err := suite.svc.Add(suite.ctx, &AddInspectorRequest{
		Name:         name,
		Email:        email,
		MobileNumber: "0771234567",
		Password:     "s3cretpw",
	})
	require.NoError(suite.T(), err)
	return rec
}

func (suite *InspectorServiceTestSuite) TestAdd_AssignsSequentialIDs() {
	first := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")
	second := suite.addInspector("Nimali Silva", "nimali@parkmate.lk")

	assert.Equal(suite.T(), "Ins0001", first.InspectorID)
	assert.Equal(suite.T(), first.InspectorID, first.UserID)
	assert.Equal(suite.T(), "Ins0002", second.InspectorID)
}

func (suite *InspectorServiceTestSuite) TestAdd_Defaults() {
	rec := suite.addInspector("Kasun Perera", "Kasun@ParkMate.LK")

	assert.Equal(suite.T(), models.StatusOffline, rec.Status)
	assert.Equal(suite.T(), models.UserTypeInspector, rec.UserType)
	assert.Equal(suite.T(), "kasun@parkmate.lk", rec.Email)
	assert.Empty(suite.T(), rec.PasswordHash)
	assert.NotEmpty(suite.T(), rec.CreatedAt)
}

func (suite *InspectorServiceTestSuite) TestAdd_StoresHashedPassword() {
	rec := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")

	item, err := suite.store.GetItem(suite.ctx, testUsersTable, rec.UserID)
	require.NoError(suite.T(), err)
	stored, err := models.RecordFromItem(item)
	require.NoError(suite.T(), err)

	assert.NotEmpty(suite.T(), stored.PasswordHash)
	assert.NotEqual(suite.T(), "s3cretpw", stored.PasswordHash)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretpw")))
}

func (suite *InspectorServiceTestSuite) TestAdd_Validation() {
	cases := []*AddInspectorRequest{
		{Email: "a@b.lk", MobileNumber: "077", Password: "s3cretpw"},
		{Name: "X", MobileNumber: "077", Password: "s3cretpw"},
		{Name: "X", Email: "a@b.lk", Password: "s3cretpw"},
		{Name: "X", Email: "a@b.lk", MobileNumber: "077"},
		{Name: "X", Email: "a@b.lk", MobileNumber: "077", Password: "short"},
		{Name: "X", Email: "a@b.lk", MobileNumber: "077", Password: "s3cretpw", Status: "ACTIVE"},
	}
	for _, req := range cases {
		_, err := suite.svc.Add(suite.ctx, req)
		var cerr *common.Error
		require.ErrorAs(suite.T(), err, &cerr)
		assert.Equal(suite.T(), common.KindValidation, cerr.Kind)
	}
}

func (suite *InspectorServiceTestSuite) TestList_SanitizedAndSorted() {
	suite.addInspector("Kasun Perera", "kasun@parkmate.lk")
	suite.addInspector("Nimali Silva", "nimali@parkmate.lk")

	records, err := suite.svc.List(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), records, 2)
	for _, rec := range records {
		assert.Empty(suite.T(), rec.PasswordHash)
		assert.Equal(suite.T(), models.UserTypeInspector, rec.UserType)
	}
}

func (suite *InspectorServiceTestSuite) TestList_ExcludesReservationsAndOtherCategories() {
	suite.addInspector("Kasun Perera", "kasun@parkmate.lk")
	require.NoError(suite.T(), suite.store.PutItem(suite.ctx, testUsersTable, store.Item{
		"userId":   "owner-1",
		"userType": string(models.UserTypeVehicleOwner),
	}))

	records, err := suite.svc.List(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), records, 1)
}

func (suite *InspectorServiceTestSuite) TestListByStatus() {
	rec := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")
	suite.addInspector("Nimali Silva", "nimali@parkmate.lk")
	require.NoError(suite.T(), suite.svc.UpdateStatus(suite.ctx, rec.UserID, models.StatusOnline))

	online, err := suite.svc.ListByStatus(suite.ctx, models.StatusOnline)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), online, 1)
	assert.Equal(suite.T(), rec.UserID, online[0].UserID)
}

func (suite *InspectorServiceTestSuite) TestSearch() {
	suite.addInspector("Kasun Perera", "kasun@parkmate.lk")
	suite.addInspector("Nimali Silva", "nimali@parkmate.lk")

	matched, err := suite.svc.Search(suite.ctx, "nimali")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), matched, 1)
	assert.Equal(suite.T(), "Nimali Silva", matched[0].Name)

	byID, err := suite.svc.Search(suite.ctx, "ins0001")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), byID, 1)
	assert.Equal(suite.T(), "Kasun Perera", byID[0].Name)

	none, err := suite.svc.Search(suite.ctx, "zzz")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), none)
}

func (suite *InspectorServiceTestSuite) TestGetByID_NotFound() {
	_, err := suite.svc.GetByID(suite.ctx, "Ins9999")
	var cerr *common.Error
	require.ErrorAs(suite.T(), err, &cerr)
	assert.Equal(suite.T(), common.KindNotFound, cerr.Kind)
}

func (suite *InspectorServiceTestSuite) TestGetByID_CategoryMismatchIsNotFound() {
	require.NoError(suite.T(), suite.store.PutItem(suite.ctx, testUsersTable, store.Item{
		"userId":   "owner-1",
		"userType": string(models.UserTypeVehicleOwner),
	}))

	_, err := suite.svc.GetByID(suite.ctx, "owner-1")
	var cerr *common.Error
	require.ErrorAs(suite.T(), err, &cerr)
	assert.Equal(suite.T(), common.KindNotFound, cerr.Kind)
}

func (suite *InspectorServiceTestSuite) TestUpdate_AllowListedFields() {
	rec := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")

	updated, err := suite.svc.Update(suite.ctx, rec.UserID, map[string]any{
		"name":  "Kasun B. Perera",
		"email": "Kasun.Perera@ParkMate.LK",
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Kasun B. Perera", updated.Name)
	assert.Equal(suite.T(), "kasun.perera@parkmate.lk", updated.Email)
	assert.NotEmpty(suite.T(), updated.UpdatedAt)
}

func (suite *InspectorServiceTestSuite) TestUpdate_RejectsPasswordFields() {
	rec := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")

	for _, field := range []string{"password", "passwordHash", "userType", "inspectorId"} {
		_, err := suite.svc.Update(suite.ctx, rec.UserID, map[string]any{field: "x"})
		var cerr *common.Error
		require.ErrorAs(suite.T(), err, &cerr)
		assert.Equal(suite.T(), common.KindValidation, cerr.Kind)
	}

	// The stored hash must be untouched after the rejected attempts.
	item, err := suite.store.GetItem(suite.ctx, testUsersTable, rec.UserID)
	require.NoError(suite.T(), err)
	stored, err := models.RecordFromItem(item)
	require.NoError(suite.T(), err)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretpw")))
}

func (suite *InspectorServiceTestSuite) TestUpdate_RejectsWrongTypedValues() {
	rec := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")

	for _, updates := range []map[string]any{
		{"status": float64(123)},
		{"name": float64(5)},
		{"isAssigned": "yes"},
		{"municipalCouncil": []any{"Colombo"}},
	} {
		_, err := suite.svc.Update(suite.ctx, rec.UserID, updates)
		var cerr *common.Error
		require.ErrorAs(suite.T(), err, &cerr)
		assert.Equal(suite.T(), common.KindValidation, cerr.Kind)
	}

	// Nothing may have been written: the record still decodes and the
	// category roster still lists.
	stored, err := suite.svc.GetByID(suite.ctx, rec.UserID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Kasun Perera", stored.Name)
	assert.Equal(suite.T(), models.StatusOffline, stored.Status)

	records, err := suite.svc.List(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), records, 1)
}

func (suite *InspectorServiceTestSuite) TestUpdate_EmptyPayload() {
	rec := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")

	_, err := suite.svc.Update(suite.ctx, rec.UserID, map[string]any{})
	var cerr *common.Error
	require.ErrorAs(suite.T(), err, &cerr)
	assert.Equal(suite.T(), common.KindValidation, cerr.Kind)
}

func (suite *InspectorServiceTestSuite) TestUpdateStatus_RejectsOwnerValues() {
	rec := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")

	err := suite.svc.UpdateStatus(suite.ctx, rec.UserID, models.StatusActive)
	var cerr *common.Error
	require.ErrorAs(suite.T(), err, &cerr)
	assert.Equal(suite.T(), common.KindValidation, cerr.Kind)
}

func (suite *InspectorServiceTestSuite) TestAssignZone() {
	rec := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")

	require.NoError(suite.T(), suite.svc.AssignZone(suite.ctx, rec.UserID, "Zone A", "Colombo MC"))

	stored, err := suite.svc.GetByID(suite.ctx, rec.UserID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Zone A", stored.AssignedZone)
	assert.Equal(suite.T(), "Colombo MC", stored.MunicipalCouncil)
	assert.True(suite.T(), stored.IsAssigned)
}

func (suite *InspectorServiceTestSuite) TestAssignZone_RequiresZone() {
	rec := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")

	err := suite.svc.AssignZone(suite.ctx, rec.UserID, "", "Colombo MC")
	var cerr *common.Error
	require.ErrorAs(suite.T(), err, &cerr)
	assert.Equal(suite.T(), common.KindValidation, cerr.Kind)
}

func (suite *InspectorServiceTestSuite) TestDelete() {
	rec := suite.addInspector("Kasun Perera", "kasun@parkmate.lk")

	require.NoError(suite.T(), suite.svc.Delete(suite.ctx, rec.UserID))

	_, err := suite.svc.GetByID(suite.ctx, rec.UserID)
	var cerr *common.Error
	require.ErrorAs(suite.T(), err, &cerr)
	assert.Equal(suite.T(), common.KindNotFound, cerr.Kind)
}

func (suite *InspectorServiceTestSuite) TestDelete_Absent() {
	err := suite.svc.Delete(suite.ctx, "Ins9999")
	var cerr *common.Error
	require.ErrorAs(suite.T(), err, &cerr)
	assert.Equal(suite.T(), common.KindNotFound, cerr.Kind)
}
