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

package awsclient

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/gravitational/trace"

	"github.com/Cloudzero/aws-tools/internal/logging"
)

// ConfigOptions controls how the shared AWS configuration is loaded.
type ConfigOptions struct {
	// Profile is the shared config profile to use. Empty means the SDK default chain.
	Profile string
	// Region overrides the region from the environment and shared config when set.
	Region string
	// MaxAttempts is the maximum number of attempts for every API call, including the first.
	MaxAttempts int
	// Logger receives SDK log output and is attached to the SDK retryer.
	Logger *slog.Logger
}

// LoadConfig loads the AWS configuration used to build every client.
func LoadConfig(ctx context.Context, opts ConfigOptions) (aws.Config, error) {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}

	loadOptions := []func(*config.LoadOptions) error{
		config.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), opts.MaxAttempts)
		}),
		config.WithLogger(logging.ToAWSLogger(opts.Logger)),
		config.WithClientLogMode(aws.LogRetries),
	}

	if opts.Profile != "" {
		loadOptions = append(loadOptions, config.WithSharedConfigProfile(opts.Profile))
	}

	if opts.Region != "" {
		loadOptions = append(loadOptions, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return aws.Config{}, trace.Wrap(err, "failed to load AWS credentials")
	}

	return cfg, nil
}
