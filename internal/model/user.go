// Package model defines the persisted entities and the response shapes the
// API returns.
//
// Entities are decoded from store documents through typed structs: the
// struct fields ARE the allow-list. Any extra key a writer left in a
// document is dropped on decode and never reaches a client.
package model

import "time"

// TimeLayout is the fixed-width UTC timestamp format used for createdAt.
// Fixed width matters: the store orders and compares createdAt as text,
// so every value must have the same number of fractional digits.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// User is a profile record, keyed by Handle.
type User struct {
	Handle    string `json:"handle"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	ImageURL  string `json:"imageUrl"`
	UserID    string `json:"userId,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Website   string `json:"website,omitempty"`
	Location  string `json:"location,omitempty"`
}
