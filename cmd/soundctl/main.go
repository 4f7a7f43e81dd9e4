package main

import (
	"context"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
