package main

import (
	"context"
	"os"

	"github.com/mbolis/quick-forms/cli"
	"github.com/mbolis/quick-forms/log"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		log.Error("main:", err)
		os.Exit(1)
	}
}
