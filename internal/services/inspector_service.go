package services

import (
	"context"
	"strings"

	"parkmate/internal/caching"
	"parkmate/internal/common"
	"parkmate/internal/models"
	"parkmate/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// InspectorService manages parking inspector records. Inspector records are
// keyed by their display ID, so userId and inspectorId are the same value.
type InspectorService interface {
	List(ctx context.Context) ([]*models.UserRecord, error)
	ListByStatus(ctx context.Context, status string) ([]*models.UserRecord, error)
	Search(ctx context.Context, term string) ([]*models.UserRecord, error)
	GetByID(ctx context.Context, id string) (*models.UserRecord, error)
	Add(ctx context.Context, req *AddInspectorRequest) (*models.UserRecord, error)
	Update(ctx context.Context, id string, updates map[string]any) (*models.UserRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AssignZone(ctx context.Context, id, zone, municipalCouncil string) error
	Delete(ctx context.Context, id string) error
}

// AddInspectorRequest carries the fields an admin submits for a new
// inspector.
type AddInspectorRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	MobileNumber     string `json:"mobileNumber" validate:"required"`
	Password         string `json:"password" validate:"required,min=6"`
	Status           string `json:"status"`
	MunicipalCouncil string `json:"municipalCouncil"`
	AssignedZone     string `json:"assignedZone"`
}

type inspectorService struct {
	rosterService
	allocator DisplayIDAllocator
}

func NewInspectorService(st store.Store, cache caching.CacheService, table string, allocator DisplayIDAllocator) InspectorService {
	return &inspectorService{
		rosterService: rosterService{
			store:    st,
			cache:    cache,
			table:    table,
			category: models.UserTypeInspector,
			updatable: map[string]bool{
				"name":             true,
				"email":            true,
				"mobileNumber":     true,
				"status":           true,
				"municipalCouncil": true,
				"assignedZone":     true,
				"isAssigned":       true,
			},
		},
		allocator: allocator,
	}
}

func (s *inspectorService) List(ctx context.Context) ([]*models.UserRecord, error) {
	return s.list(ctx)
}

func (s *inspectorService) ListByStatus(ctx context.Context, status string) ([]*models.UserRecord, error) {
	return s.listByStatus(ctx, status)
}

func (s *inspectorService) Search(ctx context.Context, term string) ([]*models.UserRecord, error) {
	return s.search(ctx, term, func(rec *models.UserRecord) []string {
		return []string{rec.Name, rec.Email, rec.MobileNumber, rec.DisplayID()}
	})
}

func (s *inspectorService) GetByID(ctx context.Context, id string) (*models.UserRecord, error) {
	rec, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Sanitized(), nil
}

func (s *inspectorService) Add(ctx context.Context, req *AddInspectorRequest) (*models.UserRecord, error) {
	if req.Name == "" || req.Email == "" || req.MobileNumber == "" || req.Password == "" {
		return nil, common.NewValidationError("Name, email, mobile number and password are required")
	}
	if len(req.Password) < 6 {
		return nil, common.NewValidationError("Password must be at least 6 characters long")
	}

	status := req.Status
	if status == "" {
		status = models.StatusOffline
	}
	if !models.ValidStatus(models.UserTypeInspector, status) {
		return nil, common.NewValidationError("Invalid inspector status")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("failed to hash password", err)
	}

	inspectorID, err := s.allocator.Next(ctx, models.UserTypeInspector)
	if err != nil {
		return nil, err
	}

	now := models.NowISO()
	rec := &models.UserRecord{
		UserID:           inspectorID,
		InspectorID:      inspectorID,
		UserType:         models.UserTypeInspector,
		Name:             req.Name,
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:     string(hash),
		MobileNumber:     req.MobileNumber,
		Status:           status,
		MunicipalCouncil: req.MunicipalCouncil,
		AssignedZone:     req.AssignedZone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	item, err := rec.Item()
	if err != nil {
		return nil, common.NewInternalError("failed to encode inspector record", err)
	}
	// The allocator reserved this key; the record replaces the reservation.
	if err := s.store.PutItem(ctx, s.table, item); err != nil {
		return nil, common.NewInternalError("failed to write inspector record", err)
	}

	s.invalidate(ctx)
	return rec.Sanitized(), nil
}

func (s *inspectorService) Update(ctx context.Context, id string, updates map[string]any) (*models.UserRecord, error) {
	rec, err := s.update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	return rec.Sanitized(), nil
}

func (s *inspectorService) UpdateStatus(ctx context.Context, id, status string) error {
	return s.updateStatus(ctx, id, status)
}

// AssignZone records a council-admin zone assignment.
func (s *inspectorService) AssignZone(ctx context.Context, id, zone, municipalCouncil string) error {
	if zone == "" {
		return common.NewValidationError("Zone is required")
	}
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	patch := store.Item{
		"assignedZone":     zone,
		"municipalCouncil": municipalCouncil,
		"isAssigned":       true,
		"updatedAt":        models.NowISO(),
	}
	if err := s.store.UpdateItem(ctx, s.table, id, patch); err != nil {
		return common.NewInternalError("failed to assign zone", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *inspectorService) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}
