package main

import (
	"log"

	"github.com/chris/rotmarket/pkg/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
