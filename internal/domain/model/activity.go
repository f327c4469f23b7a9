package model

import "time"

// Activity is one recorded firewall dispatch. Field values are never stored.
type Activity struct {
	ID         string
	Label      string
	Action     string
	Method     Method
	Outcome    NoticeKind
	StatusCode int
	Duration   time.Duration
	CreatedAt  time.Time
}
