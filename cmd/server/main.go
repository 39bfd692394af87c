package main

import (
	"github.com/texrace/texrace/internal/app/server"
	"github.com/texrace/texrace/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	logging.Fatal("Game server exited: ", zap.Error(
		server.NewServer().Start(),
	))
}
