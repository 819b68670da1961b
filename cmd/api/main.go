package main

import (
	"context"
	"log"

	"github.com/pawhaven/adoption-api-server/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("adoption API failed: %v", err)
	}
}
