package models

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

var (
	testDB  *DB
	testDSN string
)

// mustStartPostgresContainer starts a postgres container and returns a
// teardown function, a connection string, and an error.
func mustStartPostgresContainer() (func(context.Context, ...testcontainers.TerminateOption) error, string, error) {
	var (
		dbName = "test_db"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, "", fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, "", fmt.Errorf("failed to get container mapped port: %w", err)
	}

	connStr := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPwd, host, port.Port(), dbName)

	return dbContainer.Terminate, connStr, nil
}

func TestMain(m *testing.M) {
	teardown, dsn, err := mustStartPostgresContainer()
	if err != nil {
		log.Fatalf("could not start postgres container for tests: %v", err)
	}
	testDSN = dsn

	// Settlement delay is an hour so approved payments never flip to
	// paid underneath tests. The settlement test opens its own handle
	// with a short delay.
	testDB, err = NewDB(dsn, time.Hour, zap.NewNop())
	if err != nil {
		log.Fatalf("could not connect to test database: %v", err)
	}

	if err := createEnumTypes(testDB); err != nil {
		log.Fatalf("could not create enum types: %v", err)
	}
	if err := testDB.AutoMigrate(); err != nil {
		log.Fatalf("could not migrate test database: %v", err)
	}

	exitCode := m.Run()

	testDB.Close()
	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
	os.Exit(exitCode)
}

// createEnumTypes creates the postgres enums the models depend on.
// AutoMigrate handles the tables but not the types.
func createEnumTypes(db *DB) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		`CREATE TYPE user_role AS ENUM ('worker', 'supplier', 'manager')`,
		`CREATE TYPE invitation_status AS ENUM ('pending', 'used', 'expired', 'revoked')`,
		`CREATE TYPE assignment_status AS ENUM ('active', 'inactive')`,
		`CREATE TYPE payment_status AS ENUM ('pending', 'approved', 'paid', 'rejected')`,
		`CREATE TYPE transaction_status AS ENUM ('pending', 'processing', 'completed', 'failed')`,
		`CREATE TYPE upload_status AS ENUM ('pending', 'verified', 'rejected')`,
		`CREATE TYPE wallet_type AS ENUM ('ethereum', 'polygon', 'bsc')`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func createTestUser(t *testing.T, role UserRole) *User {
	t.Helper()
	user := &User{
		Provider:   "test",
		ProviderID: uuid.NewString(),
		Email:      fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()),
		Name:       "Test " + string(role),
		Role:       role,
	}
	require.NoError(t, testDB.Users.Create(user))
	return user
}

// createTestTeam returns a manager and a worker assigned under them.
func createTestTeam(t *testing.T) (*User, *User) {
	t.Helper()
	manager := createTestUser(t, RoleManager)
	worker := createTestUser(t, RoleWorker)
	_, err := testDB.Assignments.Create(manager.ID, worker, nil)
	require.NoError(t, err)
	return manager, worker
}
