package main

import (
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	sql := `
	CREATE TABLE IF NOT EXISTS payment_entries (
	  id BIGINT NOT NULL AUTO_INCREMENT,
	  form_id BIGINT NOT NULL,
	  payment_status VARCHAR(16) NOT NULL DEFAULT 'Pending',
	  transaction_id VARCHAR(128) NOT NULL DEFAULT '',
	  payment_amount DECIMAL(10,2) NOT NULL,
	  payment_date DATETIME(3) NULL,
	  payment_method VARCHAR(32) NOT NULL DEFAULT '',
	  currency CHAR(3) NOT NULL,
	  email VARCHAR(255) NOT NULL DEFAULT '',
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_entries_form_id (form_id),
	  KEY ix_entries_transaction_id (transaction_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS entry_notes (
	  id CHAR(36) NOT NULL,
	  entry_id BIGINT NOT NULL,
	  author VARCHAR(64) NOT NULL,
	  text VARCHAR(1024) NOT NULL,
	  severity VARCHAR(16) NOT NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_entry_notes_entry_id (entry_id),
	  CONSTRAINT fk_entry_notes_entry FOREIGN KEY (entry_id) REFERENCES payment_entries(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS payment_feeds (
	  id CHAR(36) NOT NULL,
	  form_id BIGINT NOT NULL,
	  name VARCHAR(128) NOT NULL,
	  transaction_type VARCHAR(32) NOT NULL DEFAULT 'product',
	  active TINYINT(1) NOT NULL DEFAULT 1,
	  field_map_json JSON NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_feeds_form_id (form_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS provider_events (
	  id CHAR(36) NOT NULL,
	  event_type VARCHAR(64) NOT NULL,
	  object_id VARCHAR(128) NOT NULL,
	  payload_json JSON NOT NULL,
	  received_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_provider_events_type_object (event_type, object_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if _, err := sqlDB.Exec(sql); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("✓ payment_entries table created successfully")
	log.Println("✓ entry_notes table created successfully")
	log.Println("✓ payment_feeds table created successfully")
	log.Println("✓ provider_events table created successfully")
}
