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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gravitational/trace"

	"github.com/Cloudzero/aws-tools/internal/awsclient"
	"github.com/Cloudzero/aws-tools/internal/cloudwatch"
	"github.com/Cloudzero/aws-tools/internal/logging"
	"github.com/Cloudzero/aws-tools/internal/settings"
)

var (
	Version = "0.0.0-dev"
)

type options struct {
	profile  string
	region   string
	logLevel string

	limit int

	days       int32
	filter     string
	configPath string
	dryRun     bool
}

func main() {
	app := kingpin.New("cloudwatch", "List CloudWatch Logs log groups and set their retention.")
	app.Version(Version)

	var opts options
	app.Flag("profile", "AWS shared config profile").Envar("AWS_PROFILE").StringVar(&opts.profile)
	app.Flag("region", "AWS region").Envar("AWS_REGION").StringVar(&opts.region)
	app.Flag("log-level", "log level (debug, info, warn, error)").StringVar(&opts.logLevel)

	listCmd := app.Command("list", "list log groups with their retention and stored bytes")
	listCmd.Flag("limit", fmt.Sprintf("maximum number of log groups to list, at most %d; 0 lists all", cloudwatch.MaxListLimit)).Default("0").IntVar(&opts.limit)

	expireCmd := app.Command("expire", "set the retention of matching log groups")
	expireCmd.Flag("days", "retention period in days").Default(fmt.Sprint(cloudwatch.DefaultRetentionDays)).Int32Var(&opts.days)
	expireCmd.Flag("filter", "only log groups whose name contains this string").StringVar(&opts.filter)
	expireCmd.Flag("config", "YAML retention policy file, replaces --days and --filter").ExistingFileVar(&opts.configPath)
	expireCmd.Flag("dry-run", "only report the retention each log group would get").BoolVar(&opts.dryRun)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, opts); err != nil {
		slog.Error("cloudwatch failed", "command", command, "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, opts options) error {
	env, err := settings.FromEnv()
	if err != nil {
		return trace.Wrap(err)
	}
	level, err := env.Level(opts.logLevel)
	if err != nil {
		return trace.Wrap(err)
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
	client := awsclient.NewCloudWatchLogsAPI(&cfg)

	switch command {
	case "list":
		groups, err := cloudwatch.ListLogGroups(ctx, client, opts.limit)
		if err != nil {
			return trace.Wrap(err)
		}
		cloudwatch.PrintLogGroups(os.Stdout, groups)
		return nil
	case "expire":
		policy := cloudwatch.SingleRulePolicy(opts.filter, opts.days)
		if opts.configPath != "" {
			policy, err = cloudwatch.LoadPolicy(opts.configPath)
			if err != nil {
				return trace.Wrap(err)
			}
		}

		summary, err := cloudwatch.NewExpirer(client, os.Stdout, opts.dryRun).Expire(ctx, policy)
		if summary != nil {
			fmt.Printf("Configured %d log groups (%d unchanged, %d skipped, %d failed)\n",
				summary.Configured, summary.Unchanged, summary.Skipped, summary.Failed)
		}
		return trace.Wrap(err)
	}
	return trace.BadParameter("unknown command %q", command)
}
