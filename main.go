package main

import (
	"flag"

	log "github.com/sirupsen/logrus"

	"sound-mixer-engine/internal/engine"
)

func main() {
	configPath := flag.String("config", "./config/settings.json", "path to the engine configuration file")
	flag.Parse()

	game := engine.NewGame(*configPath)
	if err := game.Run(); err != nil {
		log.Fatal(err)
	}
}
