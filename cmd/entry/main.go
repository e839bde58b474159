// Package main places an order from the command line. It drives the same
// order-entry session a client screen does, wired to the services in-process:
//
//	entry <card_code> <item_code>:<qty>:<price> ... [--po <number>]
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"orderdesk/internal/domain/cascade"
	"orderdesk/internal/domain/catalog"
	"orderdesk/internal/domain/entry"
	"orderdesk/internal/domain/order"
	"orderdesk/internal/domain/party"
	"orderdesk/internal/infrastructure/numerator"
	"orderdesk/internal/infrastructure/storage/postgres"
	"orderdesk/internal/infrastructure/storage/postgres/master_repo"
	"orderdesk/internal/infrastructure/storage/postgres/order_repo"
	"orderdesk/pkg/config"
	"orderdesk/pkg/logger"
)

func main() {
	req, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.App.LogLevel, Development: cfg.App.IsDev()})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	ctx := logger.WithLogger(context.Background(), log.WithComponent("entry"))

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	txm := postgres.NewTxManager(pool)

	ix, err := catalog.Load(ctx, master_repo.NewProductRepo(txm))
	if err != nil {
		log.Fatalw("failed to load catalog", "error", err)
	}

	parties := party.NewService(master_repo.NewPartyRepo(txm))
	orders := order.NewService(order.ServiceConfig{
		Repo:         order_repo.NewRepo(txm),
		TxManager:    txm,
		Numerator:    numerator.New(pool),
		NumberPrefix: cfg.Orders.NumberPrefix,
	})

	p, err := findParty(ctx, parties, req.cardCode)
	if err != nil {
		log.Fatalw("failed to find party", "card_code", req.cardCode, "error", err)
	}
	dispatches, err := parties.ListDispatches(ctx)
	if err != nil {
		log.Fatalw("failed to list dispatch points", "error", err)
	}
	if len(dispatches) > 0 {
		req.dispatch = &dispatches[0]
	}
	if len(cfg.Orders.Companies) > 0 {
		req.company = cfg.Orders.Companies[0]
	}

	s := entry.NewSession(entry.Config{Filter: ix, Addresses: parties, Submitter: orders})
	res, err := placeOrder(ctx, s, ix, p, req)
	if err != nil {
		log.Fatalw("order not placed", "error", err)
	}
	fmt.Printf("%s created, total %s\n", res.OrderNumber, res.TotalAmount.StringFixed(2))
}

type lineArg struct {
	itemCode string
	qty      string
	price    string
}

type request struct {
	cardCode string
	lines    []lineArg
	po       string
	company  string
	dispatch *party.Dispatch
}

func parseArgs(args []string) (request, error) {
	var req request
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--po":
			if i+1 >= len(args) {
				return request{}, fmt.Errorf("--po needs a value")
			}
			req.po = args[i+1]
			i++
		case req.cardCode == "":
			req.cardCode = a
		default:
			l, err := parseLine(a)
			if err != nil {
				return request{}, err
			}
			req.lines = append(req.lines, l)
		}
	}
	if req.cardCode == "" || len(req.lines) == 0 {
		return request{}, fmt.Errorf("a card code and at least one line are required")
	}
	return req, nil
}

// parseLine reads "FG001:10:250.5".
func parseLine(s string) (lineArg, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" {
		return lineArg{}, fmt.Errorf("bad line %q: want item_code:qty:price", s)
	}
	return lineArg{itemCode: parts[0], qty: parts[1], price: parts[2]}, nil
}

func findParty(ctx context.Context, parties *party.Service, cardCode string) (party.Party, error) {
	list, err := parties.ListParties(ctx)
	if err != nil {
		return party.Party{}, err
	}
	for _, p := range list {
		if p.CardCode == cardCode {
			return p, nil
		}
	}
	return party.Party{}, fmt.Errorf("unknown party %s", cardCode)
}

// placeOrder walks the cascade down to each product, confirms its line and
// submits. The first bill-to and ship-to addresses are used.
func placeOrder(ctx context.Context, s *entry.Session, ix *catalog.Index, p party.Party, req request) (order.SubmitResult, error) {
	if err := s.LoadCatalog(ctx); err != nil {
		return order.SubmitResult{}, err
	}
	if err := s.SelectParty(ctx, p); err != nil {
		return order.SubmitResult{}, err
	}
	addrs := s.Addresses()
	if len(addrs.BillTo) > 0 {
		if err := s.SelectBillTo(addrs.BillTo[0].ID); err != nil {
			return order.SubmitResult{}, err
		}
	}
	if len(addrs.ShipTo) > 0 {
		if err := s.SelectShipTo(addrs.ShipTo[0].ID); err != nil {
			return order.SubmitResult{}, err
		}
	}
	s.SetDispatch(req.dispatch)
	s.SetCompany(req.company)
	s.SetPONumber(req.po)

	for _, l := range req.lines {
		prod, ok := ix.Product(l.itemCode)
		if !ok {
			return order.SubmitResult{}, fmt.Errorf("unknown item %s", l.itemCode)
		}
		path := []struct {
			field cascade.Field
			value string
		}{
			{cascade.FieldCategory, prod.Category},
			{cascade.FieldBrand, prod.Brand},
			{cascade.FieldVariety, prod.Variety},
			{cascade.FieldType, prod.Type},
			{cascade.FieldProduct, prod.ItemCode},
		}
		for _, step := range path {
			if err := s.Select(ctx, step.field, step.value); err != nil {
				return order.SubmitResult{}, fmt.Errorf("select %s %q: %w", step.field, step.value, err)
			}
		}
		s.SetQuantity(l.qty)
		s.SetMarketPrice(l.price)
		if _, err := s.ConfirmLine(); err != nil {
			return order.SubmitResult{}, fmt.Errorf("confirm %s: %w", l.itemCode, err)
		}
	}

	return s.Submit(ctx)
}

func printUsage() {
	fmt.Println("Usage: entry <card_code> <item_code>:<qty>:<price> ... [--po <number>]")
}
