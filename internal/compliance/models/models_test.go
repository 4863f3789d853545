package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "assetguard/pkg/domain-errors"
)

func TestLabelsAndString(t *testing.T) {
	n := &Notification{AssetName: "Generator", Type: NotificationTypeService}
	assert.Equal(t, "Service Reminder for Generator", n.String())
	n.Type = NotificationTypeExpiration
	assert.Equal(t, "Expiration Reminder for Generator", n.String())

	v := &Violation{AssetName: "Generator", Type: ViolationTypeNotServiced}
	assert.Equal(t, "Service Overdue for Generator", v.String())
	v.Type = ViolationTypeExpired
	assert.Equal(t, "Asset Expired for Generator", v.String())
}

func TestParseTypes(t *testing.T) {
	nt, err := ParseNotificationType("expiration")
	require.NoError(t, err)
	assert.Equal(t, NotificationTypeExpiration, nt)

	_, err = ParseNotificationType("expired")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	vt, err := ParseViolationType("not_serviced")
	require.NoError(t, err)
	assert.Equal(t, ViolationTypeNotServiced, vt)

	_, err = ParseViolationType("service")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestSummary(t *testing.T) {
	t.Run("empty summary serializes empty lists", func(t *testing.T) {
		s := NewSummary()
		s.Finalize()
		assert.Equal(t, "Check completed. Created 0 notifications and 0 violations.", s.Message)

		raw, err := json.Marshal(s)
		require.NoError(t, err)
		assert.JSONEq(t, `{"notifications_created":0,"violations_created":0,
			"message":"Check completed. Created 0 notifications and 0 violations.",
			"details":{"notifications":[],"violations":[]}}`, string(raw))
	})

	t.Run("violation details carry only the relevant timestamp", func(t *testing.T) {
		due := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		s := NewSummary()
		s.AddNotification(NotificationDetail{Asset: "Pump", Type: NotificationTypeService, Time: due})
		s.AddViolation(ViolationDetail{Asset: "Pump", Type: ViolationTypeNotServiced, DueTime: &due})
		s.AddViolation(ViolationDetail{Asset: "Pump", Type: ViolationTypeExpired, ExpiredTime: &due})
		s.Finalize()

		assert.Equal(t, 1, s.NotificationsCreated)
		assert.Equal(t, 2, s.ViolationsCreated)
		assert.Equal(t, "Check completed. Created 1 notifications and 2 violations.", s.Message)

		raw, err := json.Marshal(s.Details)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"notifications":[{"asset":"Pump","type":"service","time":"2026-01-02T03:04:05Z"}],
			"violations":[
				{"asset":"Pump","type":"not_serviced","due_time":"2026-01-02T03:04:05Z"},
				{"asset":"Pump","type":"expired","expired_time":"2026-01-02T03:04:05Z"}
			]}`, string(raw))
	})
}
