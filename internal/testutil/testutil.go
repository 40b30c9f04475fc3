package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dom/kick-danila/internal/api"
	"github.com/dom/kick-danila/internal/api/flash"
	"github.com/dom/kick-danila/internal/config"
	"github.com/dom/kick-danila/internal/repository"
	"github.com/dom/kick-danila/internal/repository/gormdb"
	"github.com/dom/kick-danila/internal/service"
	"github.com/dom/kick-danila/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB wraps a migrated database used by one test
type TestDB struct {
	Container testcontainers.Container // nil for sqlite
	DB        *gorm.DB
	DSN       string
}

// NewTestDB opens a fresh sqlite database in the test's temp dir
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := "sqlite://" + filepath.Join(t.TempDir(), "kick_danila_test.db")
	db, err := gormdb.NewConnection(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}

	testDB := &TestDB{DB: db, DSN: dsn}
	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// NewPostgresTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewPostgresTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_kick_danila"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gormdb.NewConnection(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup closes the connection and terminates the container, if any
func (tdb *TestDB) Cleanup() {
	if sqlDB, err := tdb.DB.DB(); err == nil {
		sqlDB.Close()
	}
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	// Children first so foreign keys never block the delete.
	tables := []string{"kicks", "kick_types", "danilas"}
	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}

// Repos returns repositories bound to the test database
func (tdb *TestDB) Repos() *repository.Repositories {
	return gormdb.NewRepositories(tdb.DB)
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		Environment:       "test",
		ShutdownTimeout:   time.Second,
		FlashSecret:       "test-flash-secret-for-testing-only",
		Location:          time.UTC,
		DefaultHealAmount: 20,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Hub      *websocket.Hub
	Flashes  *flash.Store
	Config   *config.Config
}

// NewTestServer creates a seeded test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()
	cfg.DatabaseURL = testDB.DSN

	repos := testDB.Repos()
	if err := gormdb.Seed(context.Background(), repos); err != nil {
		t.Fatalf("failed to seed database: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	services := service.NewServices(repos, cfg, hub)
	flashes := flash.NewStore(cfg.FlashSecret, false)
	router := api.NewRouter(services, hub, flashes, cfg, func(ctx context.Context) error {
		return gormdb.Ping(ctx, testDB.DB)
	})

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Flashes:  flashes,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// URL returns the full URL for a given path
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the status stream URL
func (ts *TestServer) WebSocketURL() string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	return wsURL + "/api/v1/ws"
}

// NoRedirectClient returns a client that stops at the first redirect so
// tests can inspect the 303 and its flash cookie.
func NoRedirectClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
