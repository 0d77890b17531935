package main

import (
	"flag"
	"log"

	"github.com/cmbank/corebank/internal/config"
	"github.com/cmbank/corebank/internal/service"
	"github.com/cmbank/corebank/internal/store"
)

const (
	firstAccount   = 10_001
	seedPassword   = "seedpass1"
	initialBalance = 10_000 // 100.00 in minor units
)

func main() {
	configPath := flag.String("config", "", "Optional yaml config file")
	total := flag.Int("accounts", 1000, "Number of demo accounts to seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	accounts, err := store.NewAccountStore(cfg.Data.AccountsPath)
	if err != nil {
		log.Fatalf("Unable to open account store: %v", err)
	}
	ledger, err := store.NewTransactionLog(cfg.Data.TransactionsPath)
	if err != nil {
		log.Fatalf("Unable to open transaction log: %v", err)
	}
	svc := service.New(accounts, ledger, service.Params{
		MaxTxAmount:         cfg.Business.MaxTxAmountMinor,
		InterestBasisPoints: cfg.Business.InterestBasisPoints,
	})

	log.Println("--- Seeding Account Store ---")

	// Skip if already seeded: the last account of the run is the marker.
	last := int64(firstAccount + *total - 1)
	if _, err := accounts.FindByNumber(last); err == nil {
		log.Printf("Store already has account %d. Skipping.", last)
		return
	}

	log.Printf("Generating %d accounts...", *total)
	created := 0
	for i := 0; i < *total; i++ {
		number := int64(firstAccount + i)
		if _, err := accounts.FindByNumber(number); err == nil {
			continue
		}
		name := "Demo Customer"
		if _, err := svc.Register(name, number, seedPassword, initialBalance); err != nil {
			log.Fatalf("Seed of account %d failed: %v", number, err)
		}
		created++
	}
	log.Printf("Successfully seeded %d accounts.", created)
}
