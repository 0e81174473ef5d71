package models

import (
	"encoding/json"
	"time"
)

// UserType discriminates the record categories that share the users table.
type UserType string

const (
	UserTypeVehicleOwner UserType = "vehicle_owner"
	UserTypeInspector    UserType = "inspector"
	UserTypeMCOfficer    UserType = "mc_officer"

	// UserTypeIDReservation marks display-ID reservation rows written by the
	// allocator. Category scans never match it.
	UserTypeIDReservation UserType = "id_reservation"
)

// Valid reports whether t is one of the three user categories.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeVehicleOwner, UserTypeInspector, UserTypeMCOfficer:
		return true
	}
	return false
}

// Role is the portal role carried in session-token claims.
type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleMunicipalAdmin Role = "MUNICIPAL_ADMIN"
	RoleFineChecker    Role = "FINE_CHECKER"
)

// Status values. Owners carry an account-enabled flag, inspectors and
// officers carry a duty-presence flag. Both live in the same stored field.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusOnline   = "online"
	StatusOffline  = "offline"
)

// ValidStatus reports whether status is an allowed value for the category.
func ValidStatus(category UserType, status string) bool {
	switch category {
	case UserTypeVehicleOwner:
		return status == StatusActive || status == StatusInactive
	case UserTypeInspector, UserTypeMCOfficer:
		return status == StatusOnline || status == StatusOffline
	}
	return false
}

// UserRecord is the tagged-union row shape of the shared users table.
// Category-specific fields are optional and omitted when empty.
// Timestamps are stored as ISO-8601 strings, matching the table contents.
type UserRecord struct {
	UserID       string   `json:"userId"`
	UserType     UserType `json:"userType,omitempty"`
	Name         string   `json:"name,omitempty"`
	Email        string   `json:"email,omitempty"`
	PasswordHash string   `json:"passwordHash,omitempty"`
	Role         Role     `json:"role,omitempty"`
	Status       string   `json:"status,omitempty"`
	MobileNumber string   `json:"mobileNumber,omitempty"`

	// Vehicle owner fields.
	NICNumber string `json:"nicNumber,omitempty"`

	// Inspector fields.
	InspectorID      string `json:"inspectorId,omitempty"`
	MunicipalCouncil string `json:"municipalCouncil,omitempty"`
	AssignedZone     string `json:"assignedZone,omitempty"`
	IsAssigned       bool   `json:"isAssigned,omitempty"`

	// MC officer fields. Schedule window values are formatted strings as
	// entered by the admin, not structured time values.
	OfficerID         string `json:"officerId,omitempty"`
	SelectedCouncil   string `json:"selectedCouncil,omitempty"`
	CouncilID         string `json:"councilId,omitempty"`
	ScheduleStartDate string `json:"scheduleStartDate,omitempty"`
	ScheduleEndDate   string `json:"scheduleEndDate,omitempty"`
	ScheduleStartTime string `json:"scheduleStartTime,omitempty"`
	ScheduleEndTime   string `json:"scheduleEndTime,omitempty"`

	RegisteredDate string `json:"registeredDate,omitempty"`
	LastLogin      string `json:"lastLogin,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// DisplayID returns the human-facing sequential identifier for the record's
// category, or "" for categories without one.
func (r *UserRecord) DisplayID() string {
	switch r.UserType {
	case UserTypeInspector:
		return r.InspectorID
	case UserTypeMCOfficer:
		return r.OfficerID
	}
	return ""
}

// Item converts the record into a document-store item.
func (r *UserRecord) Item() (map[string]any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var item map[string]any
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return item, nil
}

// RecordFromItem converts a document-store item back into a record.
func RecordFromItem(item map[string]any) (*UserRecord, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	rec := &UserRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Sanitized returns a copy safe to return to API callers. The password hash
// is never serialized in responses.
func (r *UserRecord) Sanitized() *UserRecord {
	clone := *r
	clone.PasswordHash = ""
	return &clone
}

// NowISO formats the current UTC time the way the table stores timestamps.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
