package main

import (
	"os"

	"github.com/DesignIQ-Labs/designiq-backend/cmd/toolkit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
