package main

import (
	"winauto-mcp/cmd"

	// Register the Windows platform backend.
	_ "winauto-mcp/internal/platform/win"
)

func main() {
	cmd.Execute()
}
