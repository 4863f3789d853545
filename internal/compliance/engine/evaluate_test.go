package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	assetmodels "assetguard/internal/asset/models"
)

var now = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func asset(service, expiry time.Duration, serviced bool) *assetmodels.Asset {
	return &assetmodels.Asset{
		Name:           "Asset",
		ServiceTime:    now.Add(service),
		ExpirationTime: now.Add(expiry),
		IsServiced:     serviced,
	}
}

func conditions(findings []Finding) []Condition {
	out := make([]Condition, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Condition)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	day := 24 * time.Hour

	tests := []struct {
		name  string
		asset *assetmodels.Asset
		want  []Condition
	}{
		{"nothing due", asset(day, 2*day, false), []Condition{}},
		{"service due in 10 minutes", asset(10*time.Minute, day, false), []Condition{ServiceReminder}},
		{"service exactly at window edge", asset(ReminderWindow, day, false), []Condition{ServiceReminder}},
		{"service one second past window", asset(ReminderWindow+time.Second, day, false), []Condition{}},
		{"serviced asset gets no service reminder", asset(10*time.Minute, day, true), []Condition{}},
		{"expiry due in 5 minutes", asset(-time.Hour, 5*time.Minute, false), []Condition{ExpirationReminder, ServiceOverdue}},
		{"both deadlines inside window", asset(5*time.Minute, 10*time.Minute, false), []Condition{ServiceReminder, ExpirationReminder}},
		{"service overdue", asset(-time.Hour, day, false), []Condition{ServiceOverdue}},
		{"service deadline equal to now is overdue", asset(0, day, false), []Condition{ServiceOverdue}},
		{"serviced asset is never overdue", asset(-30*day, day, true), []Condition{}},
		{"expired and never serviced", asset(-2*time.Hour, -time.Hour, false), []Condition{ServiceOverdue, Expired}},
		{"expired fires regardless of service state", asset(-2*time.Hour, -time.Hour, true), []Condition{Expired}},
		{"expiry equal to now is expired", asset(-time.Hour, 0, true), []Condition{Expired}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conditions(Evaluate(tt.asset, now)))
		})
	}
}

func TestEvaluateCarriesDeadline(t *testing.T) {
	a := asset(-2*time.Hour, -time.Hour, false)
	findings := Evaluate(a, now)
	assert.Equal(t, a.ServiceTime, findings[0].Deadline)
	assert.Equal(t, a.ExpirationTime, findings[1].Deadline)
}

func TestReminderAndViolationAreExclusive(t *testing.T) {
	for offset := -20 * time.Minute; offset <= 20*time.Minute; offset += 30 * time.Second {
		for _, serviced := range []bool{false, true} {
			a := asset(offset, offset+time.Hour, serviced)
			got := conditions(Evaluate(a, now))
			assert.False(t, contains(got, ServiceReminder) && contains(got, ServiceOverdue), "offset %s", offset)

			b := asset(offset-time.Hour, offset, serviced)
			got = conditions(Evaluate(b, now))
			assert.False(t, contains(got, ExpirationReminder) && contains(got, Expired), "offset %s", offset)
		}
	}
}

func TestFindingTypes(t *testing.T) {
	assert.True(t, Finding{Condition: ServiceReminder}.IsNotification())
	assert.True(t, Finding{Condition: ExpirationReminder}.IsNotification())
	assert.False(t, Finding{Condition: ServiceOverdue}.IsNotification())
	assert.False(t, Finding{Condition: Expired}.IsNotification())

	assert.Equal(t, "service", string(Finding{Condition: ServiceReminder}.NotificationType()))
	assert.Equal(t, "expiration", string(Finding{Condition: ExpirationReminder}.NotificationType()))
	assert.Equal(t, "not_serviced", string(Finding{Condition: ServiceOverdue}.ViolationType()))
	assert.Equal(t, "expired", string(Finding{Condition: Expired}.ViolationType()))
}

func TestDescribe(t *testing.T) {
	deadline := time.Date(2026, 8, 15, 12, 10, 0, 0, time.UTC)
	cases := map[Condition]string{
		ServiceReminder:    `Service reminder: Asset "Pump" needs service at 2026-08-15T12:10:00Z`,
		ExpirationReminder: `Expiration reminder: Asset "Pump" expires at 2026-08-15T12:10:00Z`,
		ServiceOverdue:     `Service overdue: Asset "Pump" was due for service at 2026-08-15T12:10:00Z`,
		Expired:            `Asset expired: Asset "Pump" expired at 2026-08-15T12:10:00Z`,
	}
	for condition, want := range cases {
		assert.Equal(t, want, describe(Finding{Condition: condition, Deadline: deadline}, "Pump"))
	}
}

func contains(cs []Condition, c Condition) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}
