package container

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/chefai/chefai/internal/application/ai"
	"github.com/chefai/chefai/internal/domain/view"
	"github.com/chefai/chefai/internal/infrastructure/config"
	"github.com/chefai/chefai/internal/infrastructure/monitoring"
	"github.com/chefai/chefai/internal/ports/inbound"
	"github.com/chefai/chefai/pkg/healthcheck"
)

func testConfig(driver, path string) *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "Chef AI",
			Environment: "test",
			LogLevel:    "error",
			LogFormat:   "json",
		},
		AI: config.AIConfig{
			Provider:    config.ProviderGemini,
			Model:       "gemini-2.5-flash",
			Timeout:     time.Second,
			Temperature: 0.7,
		},
		Storage: config.StorageConfig{Driver: driver, Path: path},
	}
}

func startApp(t *testing.T, cfg *config.Config) (inbound.ChefService, *monitoring.MetricsCollector, *fx.App) {
	var svc inbound.ChefService
	var metrics *monitoring.MetricsCollector

	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		Module,
		fx.Populate(&svc, &metrics),
	)
	require.NoError(t, app.Err())
	require.NoError(t, app.Start(context.Background()))
	return svc, metrics, app
}

func TestModule_SQLiteSessionPersistsAcrossRuns(t *testing.T) {
	cfg := testConfig(config.DriverSQLite, filepath.Join(t.TempDir(), "chefai.db"))
	ctx := context.Background()

	svc, _, app := startApp(t, cfg)
	svc.Login(ctx, "Cook@Example.com")
	require.NoError(t, app.Stop(ctx))

	svc, _, app = startApp(t, cfg)
	defer app.Stop(ctx)

	email, ok := svc.CurrentEmail(ctx)
	assert.True(t, ok)
	assert.Equal(t, "cook@example.com", email)

	next, err := svc.CompleteSplash(ctx)
	require.NoError(t, err)
	assert.Equal(t, view.Home, next)
}

func TestModule_MissingKeyFallsBack(t *testing.T) {
	ctx := context.Background()
	svc, metrics, app := startApp(t, testConfig(config.DriverMemory, ""))
	defer app.Stop(ctx)

	assert.Equal(t, ai.ChatErrorFallback, svc.Chat(ctx, nil, "namaste"))
	assert.Nil(t, svc.GenerateRecipe(ctx, "chicken, rice", ""))
	assert.NotNil(t, metrics.Registry())
}

func TestModule_HealthCheck(t *testing.T) {
	ctx := context.Background()
	var hc *healthcheck.HealthCheck
	app := fx.New(
		fx.NopLogger,
		fx.Supply(testConfig(config.DriverMemory, "")),
		Module,
		fx.Populate(&hc),
	)
	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	response := hc.Check(ctx)
	assert.Equal(t, healthcheck.StatusDegraded, response.Status)
	require.Len(t, response.Checks, 2)
	assert.Equal(t, "ai", response.Checks[0].Name)
	assert.Contains(t, response.Checks[0].Message, "API key")
	assert.Equal(t, healthcheck.StatusHealthy, response.Checks[1].Status)
}

func TestModule_UnknownDriver(t *testing.T) {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(testConfig("etcd", "")),
		Module,
		fx.Invoke(func(inbound.ChefService) {}),
	)
	assert.Error(t, app.Err())
}
