package main

import (
	"gcal-sync/core/logger"
	"gcal-sync/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
