package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/linemk/shop-bot/internal/config"
	security "github.com/linemk/shop-bot/internal/jwt-new"
)

// Выпускает токен чат-шлюза для chat id; нужен для ручной проверки /api/bot/update.
func main() {
	var (
		chatID int64
		ttl    time.Duration
	)
	flag.Int64Var(&chatID, "chat-id", 0, "chat id the token is issued for")
	flag.DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to gateway.token_ttl")

	cfg := config.MustLoad()

	if chatID == 0 {
		log.Fatal("-chat-id is required")
	}
	if ttl == 0 {
		ttl = time.Duration(cfg.Gateway.TokenTTL) * time.Minute
	}

	token, err := security.NewToken(chatID, cfg.Gateway.Secret, ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	fmt.Println(token)
}
