package domain

import "time"

// DefaultMinInterval is the minimum spacing between two admitted requests
// from the same session.
const DefaultMinInterval = 500 * time.Millisecond

// AccessRecord holds the last admitted request time of a session.
// There is at most one record per session id.
type AccessRecord struct {
	SessionID      string    `json:"session_id"`
	LastAccessTime time.Time `json:"last_access_time"`
}
