package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens a SQLite database with the given DSN. Used for local
// development and lightweight deployments; postgres is the default store.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL migrations for the marketplace schema.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS parties (
			id INTEGER PRIMARY KEY,
			role VARCHAR(10) NOT NULL CHECK (role IN ('vendor', 'couple')),
			display_name VARCHAR(100) NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			hashed_password VARCHAR(255) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR(36) PRIMARY KEY,
			party_id INTEGER NOT NULL,
			role VARCHAR(10) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			expires_at DATETIME NOT NULL,
			FOREIGN KEY (party_id) REFERENCES parties(id)
		);`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY,
			couple_id INTEGER NOT NULL,
			vendor_id INTEGER NOT NULL,
			origin_inquiry_id INTEGER,
			origin_catalog_item_id INTEGER,
			status VARCHAR(10) NOT NULL DEFAULT 'active',
			last_message_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			couple_unread_count INTEGER NOT NULL DEFAULT 0,
			vendor_unread_count INTEGER NOT NULL DEFAULT 0,
			deleted_by_couple BOOLEAN NOT NULL DEFAULT 0,
			deleted_by_vendor BOOLEAN NOT NULL DEFAULT 0,
			couple_deleted_at DATETIME,
			vendor_deleted_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (couple_id, vendor_id),
			FOREIGN KEY (couple_id) REFERENCES parties(id),
			FOREIGN KEY (vendor_id) REFERENCES parties(id)
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY,
			conversation_id INTEGER NOT NULL,
			sender_role VARCHAR(10) NOT NULL,
			sender_id INTEGER NOT NULL,
			body TEXT NOT NULL,
			system BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			read_at DATETIME,
			deleted_by_couple BOOLEAN NOT NULL DEFAULT 0,
			deleted_by_vendor BOOLEAN NOT NULL DEFAULT 0,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id),
			FOREIGN KEY (sender_id) REFERENCES parties(id)
		);`,
		`CREATE TABLE IF NOT EXISTS offers (
			id INTEGER PRIMARY KEY,
			vendor_id INTEGER NOT NULL,
			couple_id INTEGER NOT NULL,
			conversation_id INTEGER,
			title VARCHAR(200) NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			total_amount INTEGER NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			valid_until DATETIME,
			accepted_at DATETIME,
			declined_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (vendor_id) REFERENCES parties(id),
			FOREIGN KEY (couple_id) REFERENCES parties(id),
			FOREIGN KEY (conversation_id) REFERENCES conversations(id)
		);`,
		`CREATE TABLE IF NOT EXISTS offer_items (
			id INTEGER PRIMARY KEY,
			offer_id INTEGER NOT NULL,
			product_id INTEGER,
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL,
			unit_price INTEGER NOT NULL,
			line_total INTEGER NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (offer_id) REFERENCES offers(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS message_reminders (
			id INTEGER PRIMARY KEY,
			conversation_id INTEGER NOT NULL,
			vendor_id INTEGER NOT NULL,
			couple_id INTEGER NOT NULL,
			reminder_type VARCHAR(10) NOT NULL,
			scheduled_for DATETIME NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_parties_email ON parties(email);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_couple ON conversations(couple_id);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_vendor ON conversations(vendor_id);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_last_message ON conversations(last_message_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conv_created ON messages(conversation_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_offers_vendor ON offers(vendor_id);`,
		`CREATE INDEX IF NOT EXISTS idx_offers_couple ON offers(couple_id);`,
		`CREATE INDEX IF NOT EXISTS idx_offer_items_offer ON offer_items(offer_id);`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_vendor_status ON message_reminders(vendor_id, status);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
