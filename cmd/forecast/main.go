// Command forecast runs a single dashboard session and prints it to the terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	_ "time/tzdata"

	"weather-dashboard/dashboard"
	"weather-dashboard/datasource"
	"weather-dashboard/logging"
)

func main() {
	configFile := flag.String("config", "config.json", "Path to configuration file (JSON or YAML)")
	asJSON := flag.Bool("json", false, "Print the view model as JSON")
	flag.Parse()

	config, err := datasource.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Keep the terminal for the dashboard itself
	logger, err := logging.New("error", config.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := dashboard.NewFromConfig(logger, config, false)
	session := d.Begin()
	if !*asJSON {
		dashboard.Render(os.Stdout, dashboard.BuildView(session.State()))
	}

	state := d.Run(ctx, session)
	view := dashboard.BuildView(state)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode view: %v\n", err)
			os.Exit(1)
		}
	} else if err := dashboard.Render(os.Stdout, view); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render view: %v\n", err)
		os.Exit(1)
	}

	if state.Kind() == dashboard.KindFailed {
		os.Exit(2)
	}
}
