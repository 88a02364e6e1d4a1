package main

import (
	"github.com/haytac/emojiril/internal/cli"
	"github.com/haytac/emojiril/internal/logging"
)

func main() {
	// Basic logger until RootCmd.PersistentPreRunE applies the loaded config.
	logging.Setup(logging.Config{Level: "info", Console: true, TimeFormat: "15:04:05"})
	cli.Execute()
}
