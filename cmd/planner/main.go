// Package main is the entry point for the planner binary.
// It only builds the command tree and runs it; wiring lives in internal/cli.
package main

import (
	"context"
	"log"

	"github.com/pkordes/voyager/internal/cli"
)

func main() {
	if err := cli.New().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
