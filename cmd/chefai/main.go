// Package main is the Chef AI terminal front end.
//
// Usage:
//
//	chefai [-config file] [-metrics] <command> [args]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/chefai/chefai/internal/infrastructure/config"
	"github.com/chefai/chefai/internal/infrastructure/container"
	"github.com/chefai/chefai/internal/infrastructure/monitoring"
	"github.com/chefai/chefai/internal/ports/inbound"
	"github.com/chefai/chefai/pkg/healthcheck"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to a config file (default: ./config.yaml if present)")
	printMetrics := flag.Bool("metrics", false, "print collected metrics to stderr on exit")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chefai: %v\n", err)
		os.Exit(1)
	}

	var svc inbound.ChefService
	var metrics *monitoring.MetricsCollector
	var health *healthcheck.HealthCheck
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		container.Module,
		fx.Populate(&svc, &metrics, &health),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "chefai: failed to start: %v\n", err)
		os.Exit(1)
	}

	code := newCLI(svc, health, os.Stdin, os.Stdout).run(ctx, flag.Args())

	if *printMetrics {
		if err := metrics.WriteText(os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "chefai: metrics: %v\n", err)
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "chefai: failed to stop cleanly: %v\n", err)
	}

	os.Exit(code)
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: chefai [-config file] [-metrics] <command> [args]

Commands:
  login <email>                  sign in and remember the email
  logout                         forget the signed-in email
  whoami                         show who is signed in
  recipe [-pantry] [-save] <ingredients>
                                 generate a recipe from ingredients
  calories <image>               estimate calories of the food in a photo
  identify <image> [question]    ask about the dish in a photo
  chat                           talk to Chef AI (type "exit" to leave)
  saved                          list saved recipes
  rate <1-5>                     rate the app
  status [-json]                 check storage and the AI provider
`)
	flag.PrintDefaults()
}
