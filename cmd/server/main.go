package main

import (
	"log/slog"
	"os"

	"hrms/internal/app/server"
)

func main() {
	if err := server.Run(); err != nil {
		slog.Error("hrms server exited", "err", err)
		os.Exit(1)
	}
}
