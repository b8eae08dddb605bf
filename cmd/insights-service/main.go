package main

import (
	"log"

	"github.com/bolt-support/insights-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
