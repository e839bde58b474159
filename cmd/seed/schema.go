package main

// schema creates the tables the server reads and writes. The sap_* tables
// are normally filled by the SAP sync job.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS sap_products (
		id            BIGSERIAL PRIMARY KEY,
		item_code     VARCHAR(50) NOT NULL UNIQUE,
		item_name     VARCHAR(255) NOT NULL,
		category      VARCHAR(100),
		brand         VARCHAR(100),
		variety       VARCHAR(100),
		sal_factor2   NUMERIC(18, 6),
		tax_rate      NUMERIC(9, 4),
		sal_pack_unit VARCHAR(50),
		is_deleted    BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS sap_parties (
		card_code VARCHAR(50) PRIMARY KEY,
		card_name VARCHAR(255) NOT NULL,
		address   TEXT,
		state     VARCHAR(100)
	)`,
	`CREATE TABLE IF NOT EXISTS sap_party_addresses (
		id           BIGSERIAL PRIMARY KEY,
		card_code    VARCHAR(50) NOT NULL REFERENCES sap_parties (card_code),
		address_id   VARCHAR(100),
		address_type CHAR(1) NOT NULL,
		gst_number   VARCHAR(20),
		full_address TEXT,
		UNIQUE (card_code, address_id, address_type)
	)`,
	`CREATE TABLE IF NOT EXISTS dispatch_locations (
		id   BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		code VARCHAR(50),
		city VARCHAR(100)
	)`,
	`CREATE TABLE IF NOT EXISTS sys_sequences (
		key         VARCHAR(100) PRIMARY KEY,
		current_val BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                 BIGSERIAL PRIMARY KEY,
		order_number       VARCHAR(50) NOT NULL UNIQUE,
		card_code          VARCHAR(50) NOT NULL,
		card_name          VARCHAR(255) NOT NULL DEFAULT '',
		bill_to_id         BIGINT NOT NULL DEFAULT 0,
		bill_to_address    TEXT NOT NULL DEFAULT '',
		ship_to_id         BIGINT NOT NULL DEFAULT 0,
		ship_to_address    TEXT NOT NULL DEFAULT '',
		dispatch_from_id   BIGINT NOT NULL DEFAULT 0,
		dispatch_from_name VARCHAR(255) NOT NULL DEFAULT '',
		company            VARCHAR(255) NOT NULL DEFAULT '',
		po_number          VARCHAR(100) NOT NULL DEFAULT '',
		total_amount       NUMERIC(18, 2) NOT NULL DEFAULT 0,
		status             VARCHAR(20) NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id           BIGSERIAL PRIMARY KEY,
		order_id     BIGINT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		item_code    VARCHAR(50) NOT NULL,
		item_name    VARCHAR(255) NOT NULL DEFAULT '',
		category     VARCHAR(100) NOT NULL DEFAULT '',
		brand        VARCHAR(100) NOT NULL DEFAULT '',
		variety      VARCHAR(100) NOT NULL DEFAULT '',
		item_type    VARCHAR(50) NOT NULL DEFAULT '',
		qty          NUMERIC(18, 4) NOT NULL DEFAULT 0,
		pcs          NUMERIC(18, 4) NOT NULL DEFAULT 0,
		boxes        NUMERIC(18, 4) NOT NULL DEFAULT 0,
		ltrs         NUMERIC(18, 2) NOT NULL DEFAULT 0,
		market_price NUMERIC(18, 2) NOT NULL DEFAULT 0,
		total        NUMERIC(18, 2) NOT NULL DEFAULT 0,
		tax_rate     NUMERIC(9, 4) NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)`,
}
