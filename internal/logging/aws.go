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

package logging

import (
	"context"
	"fmt"
	"log/slog"

	awslogging "github.com/aws/smithy-go/logging"
)

// ToAWSLogger converts the provided logger into the type that the AWS SDK expects.
// A nil logger discards everything.
func ToAWSLogger(logger *slog.Logger) awslogging.Logger {
	if logger == nil {
		logger = DiscardLogger
	}
	return &awsLogger{
		slogger: logger,
	}
}

type awsLogger struct {
	slogger *slog.Logger
	ctx     context.Context
}

var _ awslogging.Logger = &awsLogger{}
var _ awslogging.ContextLogger = &awsLogger{}

func (al *awsLogger) Logf(classification awslogging.Classification, format string, v ...any) {
	switch classification {
	case awslogging.Warn:
		al.log(slog.LevelWarn, format, v...)
	case awslogging.Debug:
		al.log(slog.LevelDebug, format, v...)
	default:
		al.log(slog.LevelWarn, "unsupported SDK log classification %q", string(classification))
		al.log(slog.LevelWarn, format, v...)
	}
}

func (al *awsLogger) WithContext(ctx context.Context) awslogging.Logger {
	return &awsLogger{
		slogger: al.slogger,
		ctx:     ctx,
	}
}

func (al *awsLogger) log(level slog.Level, format string, v ...any) {
	ctx := al.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	al.slogger.Log(ctx, level, fmt.Sprintf(format, v...), "source", "aws-sdk")
}
