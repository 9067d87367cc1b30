// cmd/discord-jira-bot/main.go
package main

import (
	"fmt"
	"os"

	"github.com/R4F405/discord-jira-bot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
