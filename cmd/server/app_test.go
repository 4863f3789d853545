package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assethandler "assetguard/internal/asset/handler"
	"assetguard/internal/compliance/models"
	"assetguard/internal/platform/config"
	"assetguard/pkg/testutil"
)

func testConfig(driver, url string) config.Server {
	return config.Server{
		Addr:     ":0",
		Database: config.DatabaseConfig{Driver: driver, URL: url},
		History:  config.HistoryConfig{TTL: time.Hour},
		Log:      config.LogConfig{Level: "error", Format: "json"},
		Check:    config.CheckConfig{Timeout: 5 * time.Second},
	}
}

func TestAppLifecycle(t *testing.T) {
	backends := map[string]config.Server{
		"memory": testConfig(config.DriverMemory, ""),
		"sqlite": testConfig(config.DriverSQLite, filepath.Join(t.TempDir(), "assetguard.db")),
	}

	for name, cfg := range backends {
		t.Run(name, func(t *testing.T) {
			a, err := newApp(context.Background(), cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = a.close() })

			testutil.Given(t, "an asset due for service in ten minutes", func(t *testing.T) {
				now := time.Now().UTC()
				rr := testutil.DoRequest(a.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/assets", map[string]any{
					"name":            "Fire Extinguisher",
					"service_time":    now.Add(10 * time.Minute),
					"expiration_time": now.Add(24 * time.Hour),
				}))
				require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
				created := testutil.UnmarshalResponse[assethandler.AssetResponse](t, rr)

				testutil.When(t, "checks run twice", func(t *testing.T) {
					first := runChecks(t, a)
					second := runChecks(t, a)

					testutil.Then(t, "only the first run creates the reminder", func(t *testing.T) {
						assert.Equal(t, 1, first.NotificationsCreated)
						assert.Zero(t, first.ViolationsCreated)
						assert.Zero(t, second.NotificationsCreated)
						assert.Equal(t, "Check completed. Created 0 notifications and 0 violations.", second.Message)
					})

					testutil.Then(t, "the reminder is listed for the asset", func(t *testing.T) {
						rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/api/notifications?asset="+created.ID))
						testutil.AssertStatusOK(t, rr)
						list := testutil.UnmarshalResponse[[]models.Notification](t, rr)
						require.Len(t, *list, 1)
						assert.Equal(t, models.NotificationTypeService, (*list)[0].Type)
						assert.Equal(t, "Fire Extinguisher", (*list)[0].AssetName)
					})

					testutil.And(t, "the last run is available", func(t *testing.T) {
						rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/api/run-checks/last"))
						testutil.AssertStatusOK(t, rr)
						last := testutil.UnmarshalResponse[models.RunRecord](t, rr)
						assert.Zero(t, last.Summary.NotificationsCreated)
					})
				})

				testutil.When(t, "the asset is deleted", func(t *testing.T) {
					rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodDelete, "/api/assets/"+created.ID))
					require.Equal(t, http.StatusNoContent, rr.Code)

					testutil.Then(t, "its records are gone too", func(t *testing.T) {
						rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/api/notifications"))
						testutil.AssertStatusOK(t, rr)
						assert.JSONEq(t, "[]", rr.Body.String())
					})
				})
			})

			rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
			testutil.AssertStatusOK(t, rr)
		})
	}
}

func runChecks(t *testing.T, a *app) models.Summary {
	t.Helper()
	rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodPost, "/api/run-checks"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return *testutil.UnmarshalResponse[models.Summary](t, rr)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := testConfig(config.DriverMemory, "")
	cfg.Addr = "127.0.0.1:0"
	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, a) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestRunChecksCommand(t *testing.T) {
	t.Setenv("ASSETGUARD_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"run-checks"})
	require.NoError(t, cmd.Execute())

	var summary models.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "Check completed. Created 0 notifications and 0 violations.", summary.Message)
	assert.NotNil(t, summary.Details.Notifications)
}

func TestMigrateCommand(t *testing.T) {
	t.Setenv("ASSETGUARD_LOG_LEVEL", "error")

	t.Run("rejects the memory driver", func(t *testing.T) {
		cmd := newRootCommand()
		cmd.SetArgs([]string{"migrate"})
		assert.Error(t, cmd.Execute())
	})

	t.Run("applies the schema to sqlite", func(t *testing.T) {
		t.Setenv("ASSETGUARD_DATABASE_DRIVER", config.DriverSQLite)
		t.Setenv("ASSETGUARD_DATABASE_URL", filepath.Join(t.TempDir(), "migrate.db"))

		var out bytes.Buffer
		cmd := newRootCommand()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"migrate"})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "migrations applied")
	})
}
