package models

import (
	"fmt"
	"time"
)

// Summary reports what a single compliance run created.
type Summary struct {
	NotificationsCreated int     `json:"notifications_created"`
	ViolationsCreated    int     `json:"violations_created"`
	Message              string  `json:"message"`
	Details              Details `json:"details"`
}

// Details lists every record the run inserted, in evaluation order.
type Details struct {
	Notifications []NotificationDetail `json:"notifications"`
	Violations    []ViolationDetail    `json:"violations"`
}

type NotificationDetail struct {
	Asset string           `json:"asset"`
	Type  NotificationType `json:"type"`
	Time  time.Time        `json:"time"`
}

// ViolationDetail carries DueTime for not_serviced and ExpiredTime for
// expired violations.
type ViolationDetail struct {
	Asset       string        `json:"asset"`
	Type        ViolationType `json:"type"`
	DueTime     *time.Time    `json:"due_time,omitempty"`
	ExpiredTime *time.Time    `json:"expired_time,omitempty"`
}

// NewSummary returns an empty summary with non-nil detail slices so it
// serializes as [] rather than null.
func NewSummary() *Summary {
	return &Summary{
		Details: Details{
			Notifications: []NotificationDetail{},
			Violations:    []ViolationDetail{},
		},
	}
}

func (s *Summary) AddNotification(d NotificationDetail) {
	s.NotificationsCreated++
	s.Details.Notifications = append(s.Details.Notifications, d)
}

func (s *Summary) AddViolation(d ViolationDetail) {
	s.ViolationsCreated++
	s.Details.Violations = append(s.Details.Violations, d)
}

// Finalize renders the completion message from the counters.
func (s *Summary) Finalize() {
	s.Message = fmt.Sprintf("Check completed. Created %d notifications and %d violations.", s.NotificationsCreated, s.ViolationsCreated)
}

// RunRecord is a completed run as kept by the run history.
type RunRecord struct {
	RanAt   time.Time `json:"ran_at"`
	Summary Summary   `json:"summary"`
}
