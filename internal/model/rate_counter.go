package model

import "time"

// RateCounter backs the fixed-window rate limiter. One row per caller key;
// the window resets when ResetAt passes. The check-and-increment is
// read-then-write without a transactional guard, so a small overcount is
// possible under concurrent bursts from the same key (the limit is advisory).
type RateCounter struct {
	Key     string    `gorm:"primarykey" json:"key"`
	Count   int       `json:"count" gorm:"not null"`
	ResetAt time.Time `json:"reset_at" gorm:"not null"`
}
