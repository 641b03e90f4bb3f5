package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/residuos/internal/cli"
	"github.com/JonMunkholm/residuos/internal/core"
)

func main() {
	app := &cli.App{
		StrictRegions: os.Getenv("LOADER_STRICT_REGIONS") == "true",
	}

	if err := cli.NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", core.FormatUserError(err))
		fmt.Fprintf(os.Stderr, "Detail: %v\n", err)
		os.Exit(1)
	}
}
