package main

import (
	"context"
	"log"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("admin API stopped: %v", err)
	}
}
