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

	"github.com/Cloudzero/aws-tools/internal/ami"
	"github.com/Cloudzero/aws-tools/internal/awsclient"
	"github.com/Cloudzero/aws-tools/internal/logging"
	"github.com/Cloudzero/aws-tools/internal/settings"
)

var (
	Version = "0.0.0-dev"
)

type options struct {
	query    ami.Query
	profile  string
	region   string
	logLevel string
	details  bool
	latest   bool
}

func main() {
	app := kingpin.New("ami", "Find machine images by name.")
	app.Version(Version)

	var opts options
	app.Flag("name", "image name prefix, may contain wildcards").Default(ami.DefaultNamePrefix).StringVar(&opts.query.NamePrefix)
	app.Flag("type", "image type appended to the name").Default(ami.DefaultType).EnumVar(&opts.query.Type, ami.ImageTypes...)
	app.Flag("owner", "image owner, may be repeated").Default(ami.DefaultOwner).StringsVar(&opts.query.Owners)
	app.Flag("profile", "AWS shared config profile").Envar("AWS_PROFILE").StringVar(&opts.profile)
	app.Flag("region", "AWS region").Envar("AWS_REGION").StringVar(&opts.region)
	app.Flag("log-level", "log level (debug, info, warn, error)").StringVar(&opts.logLevel)
	app.Flag("details", "print creation date, name and description of each image").BoolVar(&opts.details)
	app.Flag("latest", "only print the newest image").BoolVar(&opts.latest)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("ami lookup failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
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

	images, err := ami.NewFinder(awsclient.NewEC2API(&cfg)).Find(ctx, opts.query)
	if err != nil {
		return trace.Wrap(err)
	}

	if opts.latest {
		latest, err := ami.Latest(images)
		if err != nil {
			return trace.Wrap(err, "no image named %q", opts.query.NameFilter())
		}
		images = []ami.Image{latest}
	}

	ami.PrintImages(os.Stdout, images, opts.details)
	if opts.details {
		fmt.Printf("Search finished, %d images found\n", len(images))
	}
	return nil
}
