package main

import (
	"log"
	"os"

	"agritrade/internal/agritradeapi"
	"agritrade/internal/server"
	"agritrade/internal/tasks"
)

func main() {
	mode := "api"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	switch mode {
	case "api":
		server.ApiInit()
	case "tracker":
		server.TrackerInit()
	case "worker":
		server.ConfigLoad()
		app := agritradeapi.InitWorker()
		if err := tasks.RunWorker(app); err != nil {
			log.Fatal("worker failed: ", err)
		}
	default:
		log.Fatal("unknown mode: ", mode)
	}
}
