package main

import (
	"log"

	"github.com/chargesim/chargesim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("chargesim: %v", err)
	}
}
