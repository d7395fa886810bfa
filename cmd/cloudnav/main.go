package main

import (
	"log"

	"github.com/eallion/cloudnav/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("cloudnav failed to start: %v", err)
	}
}
