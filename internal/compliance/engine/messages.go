package engine

import (
	"fmt"
	"time"
)

func formatDeadline(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// describe renders the stored message or description for a finding.
func describe(f Finding, assetName string) string {
	at := formatDeadline(f.Deadline)
	switch f.Condition {
	case ServiceReminder:
		return fmt.Sprintf("Service reminder: Asset \"%s\" needs service at %s", assetName, at)
	case ExpirationReminder:
		return fmt.Sprintf("Expiration reminder: Asset \"%s\" expires at %s", assetName, at)
	case ServiceOverdue:
		return fmt.Sprintf("Service overdue: Asset \"%s\" was due for service at %s", assetName, at)
	default:
		return fmt.Sprintf("Asset expired: Asset \"%s\" expired at %s", assetName, at)
	}
}
