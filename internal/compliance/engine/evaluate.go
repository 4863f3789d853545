package engine

import (
	"time"

	assetmodels "assetguard/internal/asset/models"
	"assetguard/internal/compliance/models"
)

// ReminderWindow is how far ahead of a deadline a reminder is raised.
const ReminderWindow = 15 * time.Minute

// Condition is one of the four deadline states an asset can be in.
type Condition string

const (
	ServiceReminder    Condition = "service_reminder"
	ExpirationReminder Condition = "expiration_reminder"
	ServiceOverdue     Condition = "service_overdue"
	Expired            Condition = "expired"
)

// Finding is a condition that holds for an asset, with the deadline it
// refers to.
type Finding struct {
	Condition Condition
	Deadline  time.Time
}

// IsNotification reports whether the finding materializes as a notification.
func (f Finding) IsNotification() bool {
	return f.Condition == ServiceReminder || f.Condition == ExpirationReminder
}

func (f Finding) NotificationType() models.NotificationType {
	if f.Condition == ServiceReminder {
		return models.NotificationTypeService
	}
	return models.NotificationTypeExpiration
}

func (f Finding) ViolationType() models.ViolationType {
	if f.Condition == ServiceOverdue {
		return models.ViolationTypeNotServiced
	}
	return models.ViolationTypeExpired
}

// Evaluate returns every condition that holds for asset at now, in a fixed
// order: service reminder, expiration reminder, service overdue, expired.
//
// Reminders require the deadline to be strictly after now and at most
// now+ReminderWindow; violations fire once the deadline is at or before now,
// so a reminder and a violation never hold for the same deadline. Expiry is
// reported regardless of service state.
func Evaluate(asset *assetmodels.Asset, now time.Time) []Finding {
	threshold := now.Add(ReminderWindow)
	var findings []Finding

	if asset.ServiceTime.After(now) && !asset.ServiceTime.After(threshold) && !asset.IsServiced {
		findings = append(findings, Finding{Condition: ServiceReminder, Deadline: asset.ServiceTime})
	}
	if asset.ExpirationTime.After(now) && !asset.ExpirationTime.After(threshold) {
		findings = append(findings, Finding{Condition: ExpirationReminder, Deadline: asset.ExpirationTime})
	}
	if !asset.ServiceTime.After(now) && !asset.IsServiced {
		findings = append(findings, Finding{Condition: ServiceOverdue, Deadline: asset.ServiceTime})
	}
	if !asset.ExpirationTime.After(now) {
		findings = append(findings, Finding{Condition: Expired, Deadline: asset.ExpirationTime})
	}
	return findings
}
