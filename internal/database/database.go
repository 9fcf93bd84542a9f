// Package database provides a thin database/sql layer next to the GORM
// managers: the health check and the read-side aggregate folds the
// dashboards consume. Both layers share the same PostgreSQL store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// PaymentSummary folds the payment set into dashboard totals,
	// scoped to the given manager's team.
	PaymentSummary(ctx context.Context, adminID string) (*PaymentSummary, error)

	// TeamActivity folds upload counts for a manager's team.
	TeamActivity(ctx context.Context, adminID string) (*TeamActivity, error)

	// Close terminates the database connection.
	Close() error
}

type service struct {
	db *sql.DB
}

// New opens a database/sql handle over pgx for the given DSN.
func New(dsn string) (Service, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &service{db: db}, nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	err := s.db.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)

	return stats
}

// PaymentSummary holds the dashboard figures for a manager's team.
// Every read recomputes from the full record set; there are no
// materialized counters to drift.
type PaymentSummary struct {
	PendingTotal   float64 `json:"pending_total"`
	SettledTotal   float64 `json:"settled_total"`
	PendingCount   int     `json:"pending_count"`
	PaidCount      int     `json:"paid_count"`
	ThisMonthSpent float64 `json:"this_month_spent"`
}

// PaymentSummary folds payment_records for recipients assigned to adminID.
func (s *service) PaymentSummary(ctx context.Context, adminID string) (*PaymentSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'pending'), 0),
			COALESCE(SUM(p.amount) FILTER (WHERE p.status IN ('approved', 'paid')), 0),
			COUNT(*) FILTER (WHERE p.status = 'pending'),
			COUNT(*) FILTER (WHERE p.status = 'paid'),
			COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'paid'
				AND p.created_at >= date_trunc('month', now())), 0)
		FROM payment_records p
		JOIN user_assignments a ON a.user_id = p.recipient_id
		WHERE a.admin_id = $1
	`

	summary := &PaymentSummary{}
	err := s.db.QueryRowContext(ctx, query, adminID).Scan(
		&summary.PendingTotal,
		&summary.SettledTotal,
		&summary.PendingCount,
		&summary.PaidCount,
		&summary.ThisMonthSpent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute payment summary: %w", err)
	}

	return summary, nil
}

// TeamActivity holds upload counts for a manager's team.
type TeamActivity struct {
	TeamMembers        int `json:"team_members"`
	PendingWork        int `json:"pending_work"`
	PendingMaterials   int `json:"pending_materials"`
	VerifiedWork       int `json:"verified_work"`
	MaterialsDelivered int `json:"materials_delivered"`
}

// TeamActivity folds upload counts for recipients assigned to adminID.
func (s *service) TeamActivity(ctx context.Context, adminID string) (*TeamActivity, error) {
	activity := &TeamActivity{}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_assignments WHERE admin_id = $1
	`, adminID).Scan(&activity.TeamMembers)
	if err != nil {
		return nil, fmt.Errorf("failed to count team members: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE w.status = 'pending'),
			COUNT(*) FILTER (WHERE w.status = 'verified')
		FROM work_uploads w
		JOIN user_assignments a ON a.user_id = w.worker_id
		WHERE a.admin_id = $1
	`, adminID).Scan(&activity.PendingWork, &activity.VerifiedWork)
	if err != nil {
		return nil, fmt.Errorf("failed to count work uploads: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE m.status = 'pending'),
			COUNT(*) FILTER (WHERE m.status = 'verified')
		FROM material_uploads m
		JOIN user_assignments a ON a.user_id = m.supplier_id
		WHERE a.admin_id = $1
	`, adminID).Scan(&activity.PendingMaterials, &activity.MaterialsDelivered)
	if err != nil {
		return nil, fmt.Errorf("failed to count material uploads: %w", err)
	}

	return activity, nil
}

// Close closes the database connection.
func (s *service) Close() error {
	log.Printf("Disconnected from database")
	return s.db.Close()
}
