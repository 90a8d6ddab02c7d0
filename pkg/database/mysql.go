package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/logger"
)

func NewMySQLDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to MySQL database")
	return db, nil
}

func RunMigrations(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS fallback_leads (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		fallback_key VARCHAR(120) NOT NULL,
		lead_id VARCHAR(80) NOT NULL,
		name VARCHAR(200) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		primary_ok BOOLEAN NOT NULL DEFAULT FALSE,
		notify_ok BOOLEAN NOT NULL DEFAULT FALSE,
		reconcile_status VARCHAR(20) NOT NULL DEFAULT 'pending',
		recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		reconciled_at DATETIME,
		lead_created_at DATETIME NOT NULL,
		UNIQUE KEY ux_fallback_leads_key (fallback_key),
		INDEX idx_fallback_leads_status (reconcile_status),
		INDEX idx_fallback_leads_recorded_at (recorded_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Infof("Database migrations completed")

	return nil
}

// SeedDemoData inserts a few fallback rows so the reconciler has something to
// replay in a fresh local environment.
func SeedDemoData(db *sqlx.DB) error {
	var count int

	err := db.Get(&count, "SELECT COUNT(*) FROM fallback_leads")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d fallback leads, skipping seed", count)
		return nil
	}

	demoLeads := []struct {
		leadID string
		name   string
		phone  string
	}{
		{"lead_1724400000001_seed0001", "Rohit Sharma", "9876543210"},
		{"lead_1724400000002_seed0002", "Priya Nair", "9123456780"},
		{"lead_1724400000003_seed0003", "Amit Verma", "8765432109"},
		{"lead_1724400000004_seed0004", "Sneha Iyer", "7654321098"},
	}

	for _, l := range demoLeads {
		_, err := db.Exec(
			`INSERT INTO fallback_leads
				(fallback_key, lead_id, name, phone, primary_ok, notify_ok, reconcile_status, lead_created_at)
			VALUES (?, ?, ?, ?, FALSE, FALSE, 'pending', CURRENT_TIMESTAMP)`,
			"chatbot_lead_"+l.leadID, l.leadID, l.name, l.phone,
		)
		if err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	logger.Infof("Seeded %d demo fallback leads", len(demoLeads))
	return nil
}
