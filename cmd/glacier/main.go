// Copyright 2026 CloudZero, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gravitational/trace"

	"github.com/Cloudzero/aws-tools/internal/awsclient"
	"github.com/Cloudzero/aws-tools/internal/glacier"
	"github.com/Cloudzero/aws-tools/internal/logging"
	"github.com/Cloudzero/aws-tools/internal/settings"
)

var (
	Version = "0.0.0-dev"
)

type options struct {
	name     string
	profile  string
	region   string
	logLevel string
	verbose  bool
	dryRun   bool
}

func main() {
	app := kingpin.New("glacier", "List Glacier vaults and delete them over several runs.")
	app.Version(Version)

	var opts options
	app.Flag("name", "only process vaults whose name matches this glob pattern").Default("*").StringVar(&opts.name)
	app.Flag("profile", "AWS shared config profile").Envar("AWS_PROFILE").StringVar(&opts.profile)
	app.Flag("region", "AWS region").Envar("AWS_REGION").StringVar(&opts.region)
	app.Flag("log-level", "log level (debug, info, warn, error)").StringVar(&opts.logLevel)
	app.Flag("verbose", "list every job of each vault and log at debug level").Short('v').BoolVar(&opts.verbose)

	app.Command("list", "list vaults with their archive counts and jobs").Default()
	deleteCmd := app.Command("delete", "advance every matching vault one step towards deletion")
	deleteCmd.Flag("dry-run", "only report the action each vault would get").BoolVar(&opts.dryRun)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command == deleteCmd.FullCommand(), opts); err != nil {
		slog.Error("glacier failed", "command", command, "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, deleteVaults bool, opts options) error {
	env, err := settings.FromEnv()
	if err != nil {
		return trace.Wrap(err)
	}

	level, err := env.Level(opts.logLevel)
	if err != nil {
		return trace.Wrap(err)
	}
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level)
	slog.SetDefault(logger)
	ctx = logging.ToCtx(ctx, logger)

	cfg, err := awsclient.LoadConfig(ctx, awsclient.ConfigOptions{
		Profile:     opts.profile,
		Region:      opts.region,
		MaxAttempts: env.MaxAttempts,
		Logger:      logger,
	})
	if err != nil {
		return trace.Wrap(err)
	}
	client := awsclient.NewGlacierAPI(&cfg)

	vaults, err := glacier.ListVaults(ctx, client, opts.name)
	if err != nil {
		return trace.Wrap(err)
	}
	glacier.PrintVaults(os.Stdout, vaults, opts.verbose)

	if !deleteVaults {
		return nil
	}

	orchestrator := glacier.NewOrchestrator(client,
		glacier.WithOutput(os.Stdout),
		glacier.WithDeleteRate(env.DeleteRate, env.DeleteBurst),
		glacier.WithDryRun(opts.dryRun),
	)
	summary, err := orchestrator.Run(ctx, vaults)
	if summary != nil {
		glacier.PrintSummary(os.Stdout, summary)
	}
	return trace.Wrap(err)
}
