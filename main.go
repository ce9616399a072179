package main

import (
	"flag"
	"log"

	"marketbill/cmd"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	app, err := cmd.NewApp(*configPath)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}
