package main

import (
	"log"

	"dipbacktest/cmd"
)

func main() {
	apiHandler, cfg, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	err = apiHandler.StartApi(cfg.Server.Port)
	if err != nil {
		log.Fatal(err)
	}
}
