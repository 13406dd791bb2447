package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a PostgreSQL database using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL migrations for the marketplace schema.
func Migrate(db *sql.DB) error {
	stmts := []string{
		// Parties (vendors and couples). Rows are written by the onboarding
		// flow; this service only reads and authenticates them.
		`CREATE TABLE IF NOT EXISTS parties (
			id              BIGSERIAL    PRIMARY KEY,
			role            VARCHAR(10)  NOT NULL CHECK (role IN ('vendor', 'couple')),
			display_name    VARCHAR(100) NOT NULL,
			email           VARCHAR(100) UNIQUE NOT NULL,
			hashed_password VARCHAR(255) NOT NULL,
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,

		// Sessions: durable record behind every bearer token.
		`CREATE TABLE IF NOT EXISTS sessions (
			id         VARCHAR(36) PRIMARY KEY,
			party_id   BIGINT      NOT NULL REFERENCES parties(id),
			role       VARCHAR(10) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL
		)`,

		// Conversations: one per (couple, vendor) pair, enforced by the
		// unique constraint that also backs idempotent find-or-create.
		`CREATE TABLE IF NOT EXISTS conversations (
			id                     BIGSERIAL   PRIMARY KEY,
			couple_id              BIGINT      NOT NULL REFERENCES parties(id),
			vendor_id              BIGINT      NOT NULL REFERENCES parties(id),
			origin_inquiry_id      BIGINT,
			origin_catalog_item_id BIGINT,
			status                 VARCHAR(10) NOT NULL DEFAULT 'active',
			last_message_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			couple_unread_count    INTEGER     NOT NULL DEFAULT 0 CHECK (couple_unread_count >= 0),
			vendor_unread_count    INTEGER     NOT NULL DEFAULT 0 CHECK (vendor_unread_count >= 0),
			deleted_by_couple      BOOLEAN     NOT NULL DEFAULT FALSE,
			deleted_by_vendor      BOOLEAN     NOT NULL DEFAULT FALSE,
			couple_deleted_at      TIMESTAMPTZ,
			vendor_deleted_at      TIMESTAMPTZ,
			created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (couple_id, vendor_id)
		)`,

		// Messages with per-party soft-delete flags.
		`CREATE TABLE IF NOT EXISTS messages (
			id                BIGSERIAL   PRIMARY KEY,
			conversation_id   BIGINT      NOT NULL REFERENCES conversations(id),
			sender_role       VARCHAR(10) NOT NULL,
			sender_id         BIGINT      NOT NULL REFERENCES parties(id),
			body              TEXT        NOT NULL,
			system            BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			read_at           TIMESTAMPTZ,
			deleted_by_couple BOOLEAN     NOT NULL DEFAULT FALSE,
			deleted_by_vendor BOOLEAN     NOT NULL DEFAULT FALSE
		)`,

		// Offers and their immutable line items.
		`CREATE TABLE IF NOT EXISTS offers (
			id              BIGSERIAL   PRIMARY KEY,
			vendor_id       BIGINT      NOT NULL REFERENCES parties(id),
			couple_id       BIGINT      NOT NULL REFERENCES parties(id),
			conversation_id BIGINT      REFERENCES conversations(id),
			title           VARCHAR(200) NOT NULL,
			message         TEXT        NOT NULL DEFAULT '',
			total_amount    BIGINT      NOT NULL,
			status          VARCHAR(10) NOT NULL DEFAULT 'pending',
			valid_until     TIMESTAMPTZ,
			accepted_at     TIMESTAMPTZ,
			declined_at     TIMESTAMPTZ,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS offer_items (
			id          BIGSERIAL    PRIMARY KEY,
			offer_id    BIGINT       NOT NULL REFERENCES offers(id) ON DELETE CASCADE,
			product_id  BIGINT,
			title       VARCHAR(200) NOT NULL,
			description TEXT         NOT NULL DEFAULT '',
			quantity    INTEGER      NOT NULL CHECK (quantity > 0),
			unit_price  BIGINT       NOT NULL CHECK (unit_price >= 0),
			line_total  BIGINT       NOT NULL,
			sort_order  INTEGER      NOT NULL DEFAULT 0
		)`,

		// Anti-ghosting reminders, dispatched by an external worker.
		`CREATE TABLE IF NOT EXISTS message_reminders (
			id              BIGSERIAL   PRIMARY KEY,
			conversation_id BIGINT      NOT NULL REFERENCES conversations(id),
			vendor_id       BIGINT      NOT NULL REFERENCES parties(id),
			couple_id       BIGINT      NOT NULL REFERENCES parties(id),
			reminder_type   VARCHAR(10) NOT NULL,
			scheduled_for   TIMESTAMPTZ NOT NULL,
			status          VARCHAR(10) NOT NULL DEFAULT 'pending',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_parties_email ON parties(email)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_couple ON conversations(couple_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_vendor ON conversations(vendor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_last_message ON conversations(last_message_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conv_created ON messages(conversation_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_vendor ON offers(vendor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_couple ON offers(couple_id)`,
		`CREATE INDEX IF NOT EXISTS idx_offer_items_offer ON offer_items(offer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_vendor_status ON message_reminders(vendor_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_scheduled ON message_reminders(scheduled_for)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}
