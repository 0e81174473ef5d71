package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"parkmate/internal/caching"
	"parkmate/internal/common"
	"parkmate/internal/models"
	"parkmate/internal/store"
)

const rosterCacheTTL = time.Minute

// rosterService holds the pieces every category service shares: the users
// table, its category discriminator, the roster cache, and the per-category
// allow-list of updatable fields.
type rosterService struct {
	store    store.Store
	cache    caching.CacheService
	table    string
	category models.UserType
	// updatable names the fields the generic update path may touch.
	// Password rotation is deliberately not reachable through it.
	updatable map[string]bool
}

// list returns the category roster, newest first, serving from cache when
// fresh. Cache faults are logged and fall through to the store.
func (s *rosterService) list(ctx context.Context) ([]*models.UserRecord, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRoster(ctx, s.category); err != nil {
			log.Printf("WARN: roster cache read failed for %s: %v", s.category, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	items, err := s.store.Scan(ctx, s.table, store.Item{"userType": string(s.category)})
	if err != nil {
		return nil, common.NewInternalError("failed to scan users table", err)
	}

	records := make([]*models.UserRecord, 0, len(items))
	for _, item := range items {
		rec, err := models.RecordFromItem(item)
		if err != nil {
			return nil, common.NewInternalError("failed to decode user record", err)
		}
		records = append(records, rec.Sanitized())
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})

	if s.cache != nil {
		if err := s.cache.SetRoster(ctx, s.category, records, rosterCacheTTL); err != nil {
			log.Printf("WARN: roster cache write failed for %s: %v", s.category, err)
		}
	}
	return records, nil
}

func (s *rosterService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRoster(ctx, s.category); err != nil {
		log.Printf("WARN: roster cache invalidation failed for %s: %v", s.category, err)
	}
}

// get fetches one record by partition key, treating a category mismatch the
// same as an absent record.
func (s *rosterService) get(ctx context.Context, id string) (*models.UserRecord, error) {
	item, err := s.store.GetItem(ctx, s.table, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, common.NewNotFoundError(s.resourceName())
	}
	if err != nil {
		return nil, common.NewInternalError("failed to read user record", err)
	}
	rec, err := models.RecordFromItem(item)
	if err != nil {
		return nil, common.NewInternalError("failed to decode user record", err)
	}
	if rec.UserType != s.category {
		return nil, common.NewNotFoundError(s.resourceName())
	}
	return rec, nil
}

// update merges an allow-listed partial update into an existing record and
// returns the refreshed record. Unknown fields are rejected rather than
// silently dropped, and the merged result must still decode as a record
// before anything is written; a patch with a wrong-typed value would
// otherwise corrupt the stored document.
func (s *rosterService) update(ctx context.Context, id string, updates map[string]any) (*models.UserRecord, error) {
	if len(updates) == 0 {
		return nil, common.NewValidationError("Update payload cannot be empty")
	}

	patch := store.Item{}
	for field, value := range updates {
		if !s.updatable[field] {
			return nil, common.NewValidationError(fmt.Sprintf("Field %q cannot be updated", field))
		}
		patch[field] = value
	}

	if _, ok := patch["status"]; ok {
		status, isString := patch["status"].(string)
		if !isString || !models.ValidStatus(s.category, status) {
			return nil, common.NewValidationError(fmt.Sprintf("Invalid status %v for %s", patch["status"], s.category))
		}
	}
	if email, ok := patch["email"].(string); ok {
		patch["email"] = strings.ToLower(strings.TrimSpace(email))
	}

	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Dry-run the merge against the existing record: if the patched document
	// no longer decodes, the patch carries a wrong-typed value and must be
	// rejected before it reaches the store.
	merged, err := existing.Item()
	if err != nil {
		return nil, common.NewInternalError("failed to encode user record", err)
	}
	for field, value := range patch {
		merged[field] = value
	}
	if _, err := models.RecordFromItem(merged); err != nil {
		return nil, common.NewValidationError("Update contains a value of the wrong type")
	}

	patch["updatedAt"] = models.NowISO()
	if err := s.store.UpdateItem(ctx, s.table, id, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, common.NewNotFoundError(s.resourceName())
		}
		return nil, common.NewInternalError("failed to update user record", err)
	}

	s.invalidate(ctx)
	return s.get(ctx, id)
}

func (s *rosterService) delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteItem(ctx, s.table, id); err != nil {
		return common.NewInternalError("failed to delete user record", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *rosterService) updateStatus(ctx context.Context, id, status string) error {
	if !models.ValidStatus(s.category, status) {
		return common.NewValidationError(fmt.Sprintf("Invalid status %q for %s", status, s.category))
	}
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	patch := store.Item{"status": status, "updatedAt": models.NowISO()}
	if err := s.store.UpdateItem(ctx, s.table, id, patch); err != nil {
		return common.NewInternalError("failed to update status", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *rosterService) listByStatus(ctx context.Context, status string) ([]*models.UserRecord, error) {
	records, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*models.UserRecord, 0, len(records))
	for _, rec := range records {
		if rec.Status == status {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// search does a case-insensitive substring match over the given per-record
// field values, mirroring the portal's client-side search.
func (s *rosterService) search(ctx context.Context, term string, fields func(*models.UserRecord) []string) ([]*models.UserRecord, error) {
	records, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return records, nil
	}

	lower := strings.ToLower(term)
	matched := make([]*models.UserRecord, 0, len(records))
	for _, rec := range records {
		for _, value := range fields(rec) {
			if value != "" && strings.Contains(strings.ToLower(value), lower) {
				matched = append(matched, rec)
				break
			}
		}
	}
	return matched, nil
}

func (s *rosterService) resourceName() string {
	switch s.category {
	case models.UserTypeInspector:
		return "Inspector"
	case models.UserTypeMCOfficer:
		return "Officer"
	case models.UserTypeVehicleOwner:
		return "Vehicle owner"
	}
	return "Record"
}
