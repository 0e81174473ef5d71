package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"parkmate/internal/common"
	"parkmate/internal/models"
	"parkmate/internal/store"
)

// displayIDFormat describes one category's sequential identifier scheme.
type displayIDFormat struct {
	prefix  string
	width   int
	idField string
}

var displayIDFormats = map[models.UserType]displayIDFormat{
	models.UserTypeInspector: {prefix: "Ins", width: 4, idField: "inspectorId"},
	models.UserTypeMCOfficer: {prefix: "MCC", width: 3, idField: "officerId"},
}

// Bounds the reservation retry loop under heavy contention.
const maxAllocateAttempts = 8

// DisplayIDAllocator issues the next human-readable sequential identifier
// for a category: scan the table, take the highest numeric suffix among
// that category's records, and add one (gaps are not reused).
//
// A racing pair of adds would compute the same number from the same scan,
// so the candidate is reserved with a conditional write keyed on the ID
// itself before it is handed out; a conflict bumps the number and retries.
type DisplayIDAllocator interface {
	Next(ctx context.Context, category models.UserType) (string, error)
}

type displayIDAllocator struct {
	store store.Store
	table string
}

func NewDisplayIDAllocator(st store.Store, table string) DisplayIDAllocator {
	return &displayIDAllocator{store: st, table: table}
}

func (a *displayIDAllocator) Next(ctx context.Context, category models.UserType) (string, error) {
	format, ok := displayIDFormats[category]
	if !ok {
		return "", common.NewValidationError(fmt.Sprintf("no display ID scheme for category %q", category))
	}

	items, err := a.store.Scan(ctx, a.table, store.Item{"userType": string(category)})
	if err != nil {
		return "", common.NewInternalError("failed to scan for ID allocation", err)
	}

	max := 0
	for _, item := range items {
		id, _ := item[format.idField].(string)
		if n, ok := parseDisplayID(format, id); ok && n > max {
			max = n
		}
	}

	n := max + 1
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		id := formatDisplayID(format, n)
		reservation := store.Item{
			"userId":    id,
			"userType":  string(models.UserTypeIDReservation),
			"category":  string(category),
			"createdAt": models.NowISO(),
		}
		err := a.store.PutItemIfAbsent(ctx, a.table, reservation)
		if errors.Is(err, store.ErrConditionFailed) {
			// Someone else holds this number; try the next one.
			n++
			continue
		}
		if err != nil {
			return "", common.NewInternalError("failed to reserve display ID", err)
		}
		return id, nil
	}
	return "", common.NewConflictError("could not allocate a display ID, too many concurrent requests")
}

func parseDisplayID(format displayIDFormat, id string) (int, bool) {
	if !strings.HasPrefix(id, format.prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(format.prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func formatDisplayID(format displayIDFormat, n int) string {
	return fmt.Sprintf("%s%0*d", format.prefix, format.width, n)
}
