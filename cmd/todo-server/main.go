// Command todo-server serves the todo HTTP API.
//
// Configuration comes from a YAML file (--config or CONFIG_PATH), an optional
// .env file (--env-file) and environment variables.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/heartmarshall/todo-service/internal/app"
	"github.com/heartmarshall/todo-service/internal/config"
)

// options are the command-line flags shared by the todo commands.
type options struct {
	configPath string
	envFile    string
}

func parseFlags(name string, args []string) (options, []string, error) {
	var opts options
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "path to YAML config (default: $CONFIG_PATH or ./config.yaml)")
	flagSet.StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")
	if err := flagSet.Parse(args); err != nil {
		return options{}, nil, err
	}
	return opts, flagSet.Args(), nil
}

// loadConfig loads the dotenv file when present and then the configuration.
// Variables already set in the environment win over the dotenv file.
func loadConfig(opts options) (*config.Config, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", opts.envFile, err)
		}
	}
	if opts.configPath != "" {
		return config.LoadFrom(opts.configPath)
	}
	return config.Load()
}

func main() {
	opts, _, err := parseFlags("todo-server", os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("parse flags: %v", err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.Printf("todo-server: %v", err)
		os.Exit(1)
	}
}
