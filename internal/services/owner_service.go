package services

import (
	"context"

	"parkmate/internal/caching"
	"parkmate/internal/common"
	"parkmate/internal/models"
	"parkmate/internal/store"
)

// OwnerService manages vehicle owner records. Owners are provisioned by the
// mobile registration flow, never created here; the portal only lists,
// edits and removes them.
type OwnerService interface {
	List(ctx context.Context) ([]*models.UserRecord, error)
	ListByStatus(ctx context.Context, status string) ([]*models.UserRecord, error)
	Search(ctx context.Context, term string) ([]*models.UserRecord, error)
	GetByID(ctx context.Context, id string) (*models.UserRecord, error)
	GetByNIC(ctx context.Context, nic string) (*models.UserRecord, error)
	Update(ctx context.Context, id string, updates map[string]any) (*models.UserRecord, error)
	Delete(ctx context.Context, id string) error
}

type ownerService struct {
	rosterService
}

func NewOwnerService(st store.Store, cache caching.CacheService, table string) OwnerService {
	return &ownerService{
		rosterService: rosterService{
			store:    st,
			cache:    cache,
			table:    table,
			category: models.UserTypeVehicleOwner,
			updatable: map[string]bool{
				"name":         true,
				"email":        true,
				"mobileNumber": true,
				"status":       true,
				"nicNumber":    true,
			},
		},
	}
}

func (s *ownerService) List(ctx context.Context) ([]*models.UserRecord, error) {
	return s.list(ctx)
}

func (s *ownerService) ListByStatus(ctx context.Context, status string) ([]*models.UserRecord, error) {
	return s.listByStatus(ctx, status)
}

func (s *ownerService) Search(ctx context.Context, term string) ([]*models.UserRecord, error) {
	return s.search(ctx, term, func(rec *models.UserRecord) []string {
		return []string{rec.Name, rec.MobileNumber, rec.NICNumber}
	})
}

func (s *ownerService) GetByID(ctx context.Context, id string) (*models.UserRecord, error) {
	rec, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Sanitized(), nil
}

func (s *ownerService) GetByNIC(ctx context.Context, nic string) (*models.UserRecord, error) {
	if nic == "" {
		return nil, common.NewValidationError("NIC number is required")
	}
	items, err := s.store.Scan(ctx, s.table, store.Item{
		"userType":  string(models.UserTypeVehicleOwner),
		"nicNumber": nic,
	})
	if err != nil {
		return nil, common.NewInternalError("failed to scan users table", err)
	}
	if len(items) == 0 {
		return nil, common.NewNotFoundError("Vehicle owner")
	}
	rec, err := models.RecordFromItem(items[0])
	if err != nil {
		return nil, common.NewInternalError("failed to decode user record", err)
	}
	return rec.Sanitized(), nil
}

func (s *ownerService) Update(ctx context.Context, id string, updates map[string]any) (*models.UserRecord, error) {
	rec, err := s.update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	return rec.Sanitized(), nil
}

func (s *ownerService) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}
