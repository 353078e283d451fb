package entity

import (
	"regexp"
	"time"

	apperror "github.com/storedesk/storedesk/domain/error"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Event is a promotional calendar entry
type Event struct {
	ID                 string            `json:"id"`
	Title              map[string]string `json:"title"`
	Description        map[string]string `json:"description"`
	Link               string            `json:"link"`
	BackgroundColor    string            `json:"background_color"`
	TextColor          string            `json:"text_color"`
	StartDate          time.Time         `json:"start_date"`
	EndDate            time.Time         `json:"end_date"`
	DiscountPercentage float64           `json:"discount_percentage"`
	IsActive           bool              `json:"is_active"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// DisplayName returns the English title
func (e *Event) DisplayName() string {
	if title, ok := e.Title["en"]; ok && title != "" {
		return title
	}
	return e.ID
}

// Validate checks date ordering, colors and discount bounds
func (e *Event) Validate() error {
	if e.Title["en"] == "" {
		return apperror.NewValidationError("title", "english title is required")
	}
	if e.EndDate.Before(e.StartDate) {
		return apperror.NewValidationError("end_date", "must not be before start_date")
	}
	if !hexColorRegex.MatchString(e.BackgroundColor) {
		return apperror.NewValidationError("background_color", "must be #RRGGBB")
	}
	if !hexColorRegex.MatchString(e.TextColor) {
		return apperror.NewValidationError("text_color", "must be #RRGGBB")
	}
	if e.DiscountPercentage < 0 || e.DiscountPercentage > 100 {
		return apperror.NewValidationError("discount_percentage", "must be between 0 and 100")
	}
	return nil
}

// EventPatch is a partial event update. Nil fields are left unchanged.
type EventPatch struct {
	Title              *map[string]string `json:"title,omitempty"`
	Description        *map[string]string `json:"description,omitempty"`
	Link               *string            `json:"link,omitempty"`
	BackgroundColor    *string            `json:"background_color,omitempty"`
	TextColor          *string            `json:"text_color,omitempty"`
	StartDate          *time.Time         `json:"start_date,omitempty"`
	EndDate            *time.Time         `json:"end_date,omitempty"`
	DiscountPercentage *float64           `json:"discount_percentage,omitempty"`
	IsActive           *bool              `json:"is_active,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Link == nil && p.BackgroundColor == nil &&
		p.TextColor == nil && p.StartDate == nil && p.EndDate == nil &&
		p.DiscountPercentage == nil && p.IsActive == nil
}

// Apply returns a copy of e with the patch applied
func (patch EventPatch) Apply(e Event) Event {
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Link != nil {
		e.Link = *patch.Link
	}
	if patch.BackgroundColor != nil {
		e.BackgroundColor = *patch.BackgroundColor
	}
	if patch.TextColor != nil {
		e.TextColor = *patch.TextColor
	}
	if patch.StartDate != nil {
		e.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		e.EndDate = *patch.EndDate
	}
	if patch.DiscountPercentage != nil {
		e.DiscountPercentage = *patch.DiscountPercentage
	}
	if patch.IsActive != nil {
		e.IsActive = *patch.IsActive
	}
	return e
}

// EventFilter represents filters for listing events
type EventFilter struct {
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}
