package main

import (
	"context"
	"log"

	"github.com/DanielPerezVapo/panaderia-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("panaderia api exited: %v", err)
	}
}
