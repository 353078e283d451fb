package entity

import "time"

// PageCursor is the last row of a page listed newest first (created_at DESC,
// id DESC). The next page holds only rows strictly after it, so rows inserted
// or deleted between pages never shift the remaining ones.
type PageCursor struct {
	CreatedAt time.Time
	ID        string
}

// CursorAt returns the cursor for a row
func CursorAt(createdAt time.Time, id string) *PageCursor {
	return &PageCursor{CreatedAt: createdAt, ID: id}
}

// Admits reports whether a row sorts after the cursor. A nil cursor admits every row.
func (c *PageCursor) Admits(createdAt time.Time, id string) bool {
	if c == nil {
		return true
	}
	if createdAt.Equal(c.CreatedAt) {
		return id < c.ID
	}
	return createdAt.Before(c.CreatedAt)
}
