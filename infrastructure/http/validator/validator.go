package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperror "github.com/storedesk/storedesk/domain/error"
)

const maxBodyBytes = 1 << 20

// DecodeJSON decodes a request body, rejecting unknown fields and trailing data
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return invalidRequest("request body is required")
		}
		return invalidRequest("invalid request body: " + err.Error())
	}
	if dec.More() {
		return invalidRequest("request body must contain a single JSON object")
	}
	return nil
}

// Query reads typed query parameters and keeps the first parse error
type Query struct {
	values url.Values
	err    error
}

func NewQuery(values url.Values) *Query {
	return &Query{values: values}
}

func (q *Query) String(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

// OptionalString returns nil for an absent or blank parameter
func (q *Query) OptionalString(key string) *string {
	v := q.String(key)
	if v == "" {
		return nil
	}
	return &v
}

func (q *Query) Int(key string, def int) int {
	v := q.String(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		q.fail(key, "must be a non-negative integer")
		return def
	}
	return n
}

func (q *Query) Bool(key string) bool {
	b := q.OptionalBool(key)
	return b != nil && *b
}

func (q *Query) OptionalBool(key string) *bool {
	v := q.String(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.fail(key, "must be true or false")
		return nil
	}
	return &b
}

// OptionalTime accepts RFC3339 or a plain date. A plain date upper bound
// covers the whole day.
func (q *Query) OptionalTime(key string, upperBound bool) *time.Time {
	v := q.String(key)
	if v == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		q.fail(key, "must be RFC3339 or YYYY-MM-DD")
		return nil
	}
	if upperBound {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

// Err is a ValidationError for the first bad parameter, or nil
func (q *Query) Err() error {
	return q.err
}

func (q *Query) fail(key, details string) {
	if q.err == nil {
		q.err = apperror.NewValidationError(key, fmt.Sprintf("%s %s", key, details))
	}
}

func invalidRequest(details string) error {
	return apperror.NewAppError(apperror.ErrCodeInvalidRequest, "Invalid request", details, nil)
}
