package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beautypizza/order-assistant/internal/config"
	"github.com/beautypizza/order-assistant/internal/menu"
	"github.com/beautypizza/order-assistant/internal/order"
	"github.com/beautypizza/order-assistant/internal/session"
)

func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.MenuDSN)
	if err != nil {
		log.Fatalf("[assistant] menu db: %v", err)
	}
	defer pool.Close()

	lookup := menu.NewLookup(menu.NewPGRepo(pool))
	gateway := order.NewGateway(cfg.OrderAPIURL, cfg.OrderTimeout)
	sessions := session.NewManager()

	r := newRouter(lookup, sessions, gateway)
	log.Printf("[assistant] listening on %s", cfg.AssistantAddr)
	log.Fatal(r.Run(cfg.AssistantAddr))
}
