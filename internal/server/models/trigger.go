package models

import "time"

// NotificationChannels selects how nominees are told about a grant.
type NotificationChannels struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

// InactivityTrigger is the per-account inactivity monitoring state.
//
// EmergencyAccessGranted is written only by the inactivity evaluator and is
// never true while IsActive is false.
type InactivityTrigger struct {
	UserID                 string
	IsActive               bool
	InactiveDaysThreshold  int
	CustomMessage          string
	Channels               NotificationChannels
	LastActivityAt         time.Time
	EmergencyAccessGranted bool
	UpdatedAt              time.Time
}

// DaysSinceActivity returns the number of whole days between the last
// recorded activity and now.
func (t *InactivityTrigger) DaysSinceActivity(now time.Time) int {
	if now.Before(t.LastActivityAt) {
		return 0
	}
	return int(now.Sub(t.LastActivityAt) / (24 * time.Hour))
}

// ThresholdReached reports whether an active trigger should grant access.
func (t *InactivityTrigger) ThresholdReached(now time.Time) bool {
	return t.IsActive && t.DaysSinceActivity(now) >= t.InactiveDaysThreshold
}
