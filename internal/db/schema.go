package db

import "database/sql"

// EnsureSchema creates the tables this service owns. The unique key on
// booking_slots (product_id, booking_date, slot_id, active) is the storage-level
// defense for the exclusivity rule: live holds carry active=1, released holds
// set active to NULL so MySQL's unique index ignores them.
func EnsureSchema(db *sql.DB) error {
	ddls := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS slots (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			product_id BIGINT NOT NULL,
			label VARCHAR(100) NOT NULL,
			start_time VARCHAR(10) NOT NULL,
			end_time VARCHAR(10) NOT NULL,
			KEY idx_slot_product (product_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			booking_id VARCHAR(40) NOT NULL,
			product_id BIGINT NOT NULL,
			booking_date DATE NOT NULL,
			first_name VARCHAR(100) NULL,
			last_name VARCHAR(100) NULL,
			address VARCHAR(255) NULL,
			city VARCHAR(100) NULL,
			state VARCHAR(100) NULL,
			postcode VARCHAR(20) NULL,
			phone VARCHAR(30) NULL,
			email VARCHAR(255) NULL,
			notes TEXT NULL,
			total_amount DECIMAL(10,2) NOT NULL,
			gst_amount DECIMAL(10,2) NOT NULL,
			booking_amount DECIMAL(10,2) NOT NULL,
			payment_status VARCHAR(20) NOT NULL DEFAULT 'locked',
			lock_expires_at DATETIME NULL,
			gateway_order_id VARCHAR(64) NULL,
			gateway_payment_id VARCHAR(64) NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_booking_id (booking_id),
			UNIQUE KEY uniq_gateway_order (gateway_order_id),
			KEY idx_status_expiry (payment_status, lock_expires_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS booking_slots (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			booking_id BIGINT NOT NULL,
			slot_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			booking_date DATE NOT NULL,
			active TINYINT NULL DEFAULT 1,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_active_hold (product_id, booking_date, slot_id, active),
			KEY idx_hold_booking (booking_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS media_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			collection VARCHAR(50) NOT NULL,
			title VARCHAR(255) NOT NULL DEFAULT '',
			image_url VARCHAR(500) NOT NULL,
			display_order INT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			KEY idx_collection_order (collection, display_order)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(30) NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_user_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
