package entity

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// AuditAction is the kind of operation an audit log describes
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLogin  AuditAction = "login"
	AuditActionLogout AuditAction = "logout"
	AuditActionExport AuditAction = "export"
	AuditActionImport AuditAction = "import"
	AuditActionRevert AuditAction = "revert"
)

// AuditActions lists every known action
var AuditActions = []AuditAction{
	AuditActionCreate,
	AuditActionUpdate,
	AuditActionDelete,
	AuditActionLogin,
	AuditActionLogout,
	AuditActionExport,
	AuditActionImport,
	AuditActionRevert,
}

// Valid reports whether the action is one of the known actions
func (a AuditAction) Valid() bool {
	for _, known := range AuditActions {
		if a == known {
			return true
		}
	}
	return false
}

// EntityType is the kind of record an audit log refers to
type EntityType string

const (
	EntityTypeProduct  EntityType = "product"
	EntityTypeOrder    EntityType = "order"
	EntityTypeUser     EntityType = "user"
	EntityTypeEvent    EntityType = "event"
	EntityTypeSettings EntityType = "settings"
	EntityTypeAuth     EntityType = "auth"
)

// EntityTypes lists every known entity type
var EntityTypes = []EntityType{
	EntityTypeProduct,
	EntityTypeOrder,
	EntityTypeUser,
	EntityTypeEvent,
	EntityTypeSettings,
	EntityTypeAuth,
}

// Valid reports whether the entity type is one of the known types
func (t EntityType) Valid() bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Changes holds the serialized entity state around a mutation.
// create sets only After, delete only Before, update both.
type Changes struct {
	Before json.RawMessage `json:"before,omitempty"`
	After  json.RawMessage `json:"after,omitempty"`
}

// HasBefore reports whether a usable before snapshot is present. JSON null counts as absent.
func (c *Changes) HasBefore() bool {
	return c != nil && present(c.Before)
}

// HasAfter reports whether an after snapshot is present
func (c *Changes) HasAfter() bool {
	return c != nil && present(c.After)
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// NewChanges marshals before/after values into a Changes pair. Nil values are left out.
func NewChanges(before, after interface{}) (*Changes, error) {
	changes := &Changes{}
	if before != nil {
		raw, err := json.Marshal(before)
		if err != nil {
			return nil, err
		}
		changes.Before = raw
	}
	if after != nil {
		raw, err := json.Marshal(after)
		if err != nil {
			return nil, err
		}
		changes.After = raw
	}
	return changes, nil
}

// AuditLog represents one recorded admin action
type AuditLog struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	UserEmail  string                 `json:"user_email"`
	Action     AuditAction            `json:"action"`
	EntityType EntityType             `json:"entity_type"`
	EntityID   *string                `json:"entity_id,omitempty"`
	EntityName *string                `json:"entity_name,omitempty"`
	Changes    *Changes               `json:"changes,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Reverted   bool                   `json:"reverted"`
	RevertedAt *time.Time             `json:"reverted_at,omitempty"`
	RevertedBy *string                `json:"reverted_by,omitempty"`
	Deleted    bool                   `json:"deleted"`
	DeletedAt  *time.Time             `json:"deleted_at,omitempty"`
	DeletedBy  *string                `json:"deleted_by,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// CanRevert reports whether the log may be reverted
func (l *AuditLog) CanRevert() bool {
	return l.RevertBlocker() == ""
}

// RevertBlocker returns the reason the log is not revertible, or "" when it is
func (l *AuditLog) RevertBlocker() string {
	switch {
	case l.Reverted:
		return "already reverted"
	case l.Deleted:
		return "log is deleted"
	case l.Action == AuditActionDelete:
		return "delete actions cannot be reverted"
	case !l.Changes.HasBefore():
		return "no before state recorded"
	}
	return ""
}

// MatchesSearch reports whether q appears, case-insensitively, in the actor email,
// entity name or entity id. An empty query matches everything.
func (l *AuditLog) MatchesSearch(q string) bool {
	if q == "" {
		return true
	}
	needle := strings.ToLower(q)
	if strings.Contains(strings.ToLower(l.UserEmail), needle) {
		return true
	}
	if l.EntityName != nil && strings.Contains(strings.ToLower(*l.EntityName), needle) {
		return true
	}
	if l.EntityID != nil && strings.Contains(strings.ToLower(*l.EntityID), needle) {
		return true
	}
	return false
}

// FilterBySearch returns the logs matching q. The input slice is left untouched.
func FilterBySearch(logs []*AuditLog, q string) []*AuditLog {
	filtered := make([]*AuditLog, 0, len(logs))
	for _, log := range logs {
		if log.MatchesSearch(q) {
			filtered = append(filtered, log)
		}
	}
	return filtered
}

// AuditLogFilter represents filters for listing audit logs. Nil fields are not applied.
type AuditLogFilter struct {
	Action         *AuditAction `json:"action,omitempty"`
	EntityType     *EntityType  `json:"entity_type,omitempty"`
	UserID         *string      `json:"user_id,omitempty"`
	StartDate      *time.Time   `json:"start_date,omitempty"`
	EndDate        *time.Time   `json:"end_date,omitempty"`
	Reverted       *bool        `json:"reverted,omitempty"`
	Deleted        *bool        `json:"deleted,omitempty"`
	IncludeDeleted bool         `json:"include_deleted"`
	Limit          int          `json:"limit"`
	Offset         int          `json:"offset"`
	After          *PageCursor  `json:"-"`
}

// Matches applies the filter to a single log in memory. Limit and Offset are ignored.
func (f AuditLogFilter) Matches(l *AuditLog) bool {
	if !f.IncludeDeleted && l.Deleted {
		return false
	}
	if !f.After.Admits(l.CreatedAt, l.ID) {
		return false
	}
	if f.Action != nil && l.Action != *f.Action {
		return false
	}
	if f.EntityType != nil && l.EntityType != *f.EntityType {
		return false
	}
	if f.UserID != nil && l.UserID != *f.UserID {
		return false
	}
	if f.StartDate != nil && l.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && l.CreatedAt.After(*f.EndDate) {
		return false
	}
	if f.Reverted != nil && l.Reverted != *f.Reverted {
		return false
	}
	if f.Deleted != nil && l.Deleted != *f.Deleted {
		return false
	}
	return true
}
