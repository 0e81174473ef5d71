package services

import (
	"context"
	"strings"

	"parkmate/internal/caching"
	"parkmate/internal/common"
	"parkmate/internal/models"
	"parkmate/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// OfficerService manages municipal council officer records. Unlike
// inspectors, officer records are keyed by a generated UUID; the MCC
// display ID is a separate attribute.
type OfficerService interface {
	List(ctx context.Context) ([]*models.UserRecord, error)
	ListByStatus(ctx context.Context, status string) ([]*models.UserRecord, error)
	Search(ctx context.Context, term string) ([]*models.UserRecord, error)
	GetByID(ctx context.Context, id string) (*models.UserRecord, error)
	Add(ctx context.Context, req *AddOfficerRequest) (*models.UserRecord, error)
	Update(ctx context.Context, id string, updates map[string]any) (*models.UserRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// AddOfficerRequest carries the fields an admin submits for a new officer.
// Schedule window values are kept as the formatted strings the form sends.
type AddOfficerRequest struct {
	Name              string `json:"name" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	MobileNumber      string `json:"mobileNumber" validate:"required"`
	Password          string `json:"password" validate:"required,min=6"`
	Status            string `json:"status"`
	SelectedCouncil   string `json:"selectedCouncil"`
	CouncilID         string `json:"councilId"`
	ScheduleStartDate string `json:"scheduleStartDate"`
	ScheduleEndDate   string `json:"scheduleEndDate"`
	ScheduleStartTime string `json:"scheduleStartTime"`
	ScheduleEndTime   string `json:"scheduleEndTime"`
}

type officerService struct {
	rosterService
	allocator DisplayIDAllocator
}

func NewOfficerService(st store.Store, cache caching.CacheService, table string, allocator DisplayIDAllocator) OfficerService {
	return &officerService{
		rosterService: rosterService{
			store:    st,
			cache:    cache,
			table:    table,
			category: models.UserTypeMCOfficer,
			updatable: map[string]bool{
				"name":              true,
				"email":             true,
				"mobileNumber":      true,
				"status":            true,
				"selectedCouncil":   true,
				"councilId":         true,
				"scheduleStartDate": true,
				"scheduleEndDate":   true,
				"scheduleStartTime": true,
				"scheduleEndTime":   true,
			},
		},
		allocator: allocator,
	}
}

func (s *officerService) List(ctx context.Context) ([]*models.UserRecord, error) {
	return s.list(ctx)
}

func (s *officerService) ListByStatus(ctx context.Context, status string) ([]*models.UserRecord, error) {
	return s.listByStatus(ctx, status)
}

func (s *officerService) Search(ctx context.Context, term string) ([]*models.UserRecord, error) {
	return s.search(ctx, term, func(rec *models.UserRecord) []string {
		return []string{rec.Name, rec.Email, rec.MobileNumber, rec.DisplayID()}
	})
}

func (s *officerService) GetByID(ctx context.Context, id string) (*models.UserRecord, error) {
	rec, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Sanitized(), nil
}

func (s *officerService) Add(ctx context.Context, req *AddOfficerRequest) (*models.UserRecord, error) {
	if req.Name == "" || req.Email == "" || req.MobileNumber == "" || req.Password == "" {
		return nil, common.NewValidationError("Name, email, mobile number and password are required")
	}
	if len(req.Password) < 6 {
		return nil, common.NewValidationError("Password must be at least 6 characters long")
	}

	status := req.Status
	if status == "" {
		status = models.StatusOnline
	}
	if !models.ValidStatus(models.UserTypeMCOfficer, status) {
		return nil, common.NewValidationError("Invalid officer status")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("failed to hash password", err)
	}

	officerID, err := s.allocator.Next(ctx, models.UserTypeMCOfficer)
	if err != nil {
		return nil, err
	}

	now := models.NowISO()
	rec := &models.UserRecord{
		UserID:            uuid.New().String(),
		OfficerID:         officerID,
		UserType:          models.UserTypeMCOfficer,
		Name:              req.Name,
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:      string(hash),
		MobileNumber:      req.MobileNumber,
		Status:            status,
		SelectedCouncil:   req.SelectedCouncil,
		CouncilID:         req.CouncilID,
		ScheduleStartDate: req.ScheduleStartDate,
		ScheduleEndDate:   req.ScheduleEndDate,
		ScheduleStartTime: req.ScheduleStartTime,
		ScheduleEndTime:   req.ScheduleEndTime,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	item, err := rec.Item()
	if err != nil {
		return nil, common.NewInternalError("failed to encode officer record", err)
	}
	if err := s.store.PutItem(ctx, s.table, item); err != nil {
		return nil, common.NewInternalError("failed to write officer record", err)
	}

	s.invalidate(ctx)
	return rec.Sanitized(), nil
}

func (s *officerService) Update(ctx context.Context, id string, updates map[string]any) (*models.UserRecord, error) {
	rec, err := s.update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	return rec.Sanitized(), nil
}

func (s *officerService) UpdateStatus(ctx context.Context, id, status string) error {
	return s.updateStatus(ctx, id, status)
}

func (s *officerService) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}
