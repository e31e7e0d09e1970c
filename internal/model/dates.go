package model

import "time"

// MemberSince formats a join date as "Jan 2024".
func MemberSince(t time.Time) string {
	return t.Format("Jan 2006")
}

// PublishedOn formats a report date as "January 2, 2024".
func PublishedOn(t time.Time) string {
	return t.Format("January 2, 2006")
}
