package main

import (
	"os"

	"github.com/wonny/partqc/cmd/qc/commands"
)

// main is the entry point for the qc CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/qc [command]
func main() {
	os.Exit(commands.ExitCode(commands.Execute()))
}
