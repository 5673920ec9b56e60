package main

import (
	"fmt"
	"os"

	"github.com/kobzarvs/cedit/internal/app"
)

func main() {
	if err := app.NewCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cedit:", err)
		os.Exit(1)
	}
}
