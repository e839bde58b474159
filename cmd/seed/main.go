// Package main provides a CLI tool that creates the orderdesk tables, aligns
// today's order sequence with stored orders and seeds demo master data for
// local development.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	corenumerator "orderdesk/internal/core/numerator"
	"orderdesk/internal/infrastructure/cache"
	"orderdesk/internal/infrastructure/numerator"
	"orderdesk/internal/infrastructure/storage/postgres"
	"orderdesk/internal/infrastructure/storage/postgres/order_repo"
	"orderdesk/pkg/config"
	"orderdesk/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	log = log.WithComponent("seed")
	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}
	}
	log.Info("schema applied")

	txm := postgres.NewTxManager(pool)
	if err := alignOrderSequence(ctx, txm, pool, cfg.Orders.NumberPrefix, time.Now()); err != nil {
		log.Fatalw("failed to align order sequence", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") != "true" {
		log.Info("SEED_DEMO_DATA not set, skipping demo data")
		return
	}

	if err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return seedDemoData(ctx, txm, log)
	}); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	if _, err := pool.Exec(ctx, "SELECT pg_notify($1, 'seed')", cache.NotifyChannel); err != nil {
		log.Warnw("failed to notify catalog change", "error", err)
	}

	log.Info("seeding completed successfully")
}

// alignOrderSequence moves today's order sequence past the highest order
// number already stored, e.g. after orders were imported from another system.
func alignOrderSequence(ctx context.Context, txm *postgres.TxManager, pool *postgres.Pool, prefix string, now time.Time) error {
	cfg := corenumerator.OrderConfig(prefix)
	last, err := order_repo.NewRepo(txm).LastNumber(ctx, numerator.Prefix(cfg, now))
	if err != nil {
		return err
	}
	n, err := numerator.New(pool).AlignTo(ctx, cfg, now, last)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info(ctx, "order sequence aligned", "last_number", last, "sequence", n)
	}
	return nil
}

func seedDemoData(ctx context.Context, txm *postgres.TxManager, log *logger.Logger) error {
	q := txm.GetQuerier(ctx)

	var products int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM sap_products`).Scan(&products); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if products == 0 {
		n, err := txm.CopyRows(ctx, "sap_products",
			[]string{"item_code", "item_name", "category", "brand", "variety", "sal_factor2", "tax_rate", "sal_pack_unit"},
			demoProducts,
		)
		if err != nil {
			return fmt.Errorf("copy products: %w", err)
		}
		log.Infow("seeded products", "count", n)
	} else {
		log.Infow("products already present, skipping", "count", products)
	}

	for _, p := range demoParties {
		if _, err := q.Exec(ctx, `
			INSERT INTO sap_parties (card_code, card_name, address, state)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (card_code) DO NOTHING
		`, p[0], p[1], p[2], p[3]); err != nil {
			return fmt.Errorf("insert party %s: %w", p[0], err)
		}
	}

	for _, a := range demoAddresses {
		if _, err := q.Exec(ctx, `
			INSERT INTO sap_party_addresses (card_code, address_id, address_type, gst_number, full_address)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (card_code, address_id, address_type) DO NOTHING
		`, a[0], a[1], a[2], a[3], a[4]); err != nil {
			return fmt.Errorf("insert address %s/%s: %w", a[0], a[1], err)
		}
	}

	for _, d := range demoDispatches {
		if _, err := q.Exec(ctx, `
			INSERT INTO dispatch_locations (name, code, city)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, d[0], d[1], d[2]); err != nil {
			return fmt.Errorf("insert dispatch %s: %w", d[0], err)
		}
	}

	log.Infow("seeded master data",
		"parties", len(demoParties),
		"addresses", len(demoAddresses),
		"dispatches", len(demoDispatches),
	)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// item_code, item_name, category, brand, variety, sal_factor2, tax_rate, sal_pack_unit
var demoProducts = [][]any{
	{"FG0001", "Jivo Canola Oil 1 LTR", "Edible Oil", "Jivo", "Canola", dec("10"), dec("5"), "10"},
	{"FG0002", "Jivo Canola Oil 5 LTR", "Edible Oil", "Jivo", "Canola", dec("4"), dec("5"), "20"},
	{"FG0003", "Jivo Canola Oil 15 LTR Tin", "Edible Oil", "Jivo", "Canola", dec("1"), dec("5"), "15"},
	{"FG0004", "Jivo Olive Pomace 1 LTR", "Edible Oil", "Jivo", "Olive", dec("12"), dec("5"), "12"},
	{"FG0005", "Jivo Olive Extra Light 500 ML", "Edible Oil", "Jivo", "Olive", dec("24"), dec("5"), "12"},
	{"FG0006", "Ganga Mustard Oil 1 LTR", "Edible Oil", "Ganga", "Mustard", dec("16"), dec("5"), "16"},
	{"FG0007", "Ganga Mustard Oil Loose", "Edible Oil", "Ganga", "Mustard", nil, dec("5"), nil},
	{"FG0008", "Jivo Wheatgrass Juice 500 ML", "Beverages", "Jivo", "Wheatgrass", dec("12"), dec("12"), "6"},
	{"FG0009", "Jivo Alkaline Water 1 LTR", "Beverages", "Jivo", "Water", dec("12"), dec("18"), "12"},
}

// card_code, card_name, address, state
var demoParties = [][4]string{
	{"C0001", "Acme Traders", "12 Mall Road, Ludhiana", "Punjab"},
	{"C0002", "Bharat Stores", "45 MG Road, Jaipur", "Rajasthan"},
	{"C0003", "City Mart", "7 Lake View, Bhopal", "Madhya Pradesh"},
}

// card_code, address_id, address_type, gst_number, full_address
var demoAddresses = [][5]string{
	{"C0001", "Head Office", "B", "03AAACA1234A1Z5", "12 Mall Road, Ludhiana, Punjab 141001"},
	{"C0001", "Warehouse 1", "S", "03AAACA1234A1Z5", "Plot 9, Focal Point Phase 8, Ludhiana, Punjab 141010"},
	{"C0001", "Warehouse 2", "S", "03AAACA1234A1Z5", "22 GT Road, Khanna, Punjab 141401"},
	{"C0002", "Main", "B", "08AABCB5678B1Z2", "45 MG Road, Jaipur, Rajasthan 302001"},
}

// name, code, city
var demoDispatches = [][3]string{
	{"Delhi Plant", "DL01", "Delhi"},
	{"Sonipat Depot", "HR02", "Sonipat"},
}
