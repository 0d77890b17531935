package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cmbank/corebank/internal/api"
	"github.com/cmbank/corebank/internal/config"
	"github.com/cmbank/corebank/internal/service"
	"github.com/cmbank/corebank/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Optional yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireAuth(); err != nil {
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
	handler := api.NewHandler(svc,
		[]byte(cfg.Auth.JWTSecret),
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
		cfg.Auth.AdminKey,
	)
	r := api.NewRouter(handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
