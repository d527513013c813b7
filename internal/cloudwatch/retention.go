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

// Package cloudwatch lists CloudWatch Logs log groups and sets their retention.
package cloudwatch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logsTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/gravitational/trace"

	"github.com/Cloudzero/aws-tools/internal/awsclient"
	"github.com/Cloudzero/aws-tools/internal/logging"
)

// MaxListLimit is the largest page DescribeLogGroups returns.
const MaxListLimit = 50

// LogGroup is a CloudWatch Logs log group.
type LogGroup struct {
	Name string
	// RetentionInDays is zero when events never expire.
	RetentionInDays int32
	StoredBytes     int64
	CreationTime    time.Time
}

// ListLogGroups returns up to limit log groups. A limit of zero returns every group.
func ListLogGroups(ctx context.Context, client awsclient.CloudWatchLogsAPI, limit int) ([]LogGroup, error) {
	if limit < 0 {
		return nil, trace.BadParameter("limit must not be negative, got %d", limit)
	}

	if limit > 0 {
		results, err := client.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
			Limit: aws.Int32(int32(min(limit, MaxListLimit))),
		})
		if err != nil {
			return nil, trace.Wrap(err, "failed to request log groups")
		}
		return toLogGroups(results.LogGroups), nil
	}

	groups, err := awsclient.GetAllWithPagination(
		func(previousToken *string) (*string, []logsTypes.LogGroup, error) {
			results, err := client.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
				NextToken: previousToken,
			})
			if err != nil {
				return nil, nil, trace.Wrap(err, "failed to request log groups")
			}

			return results.NextToken, results.LogGroups, nil
		},
	)
	if err != nil {
		return nil, trace.Wrap(err, "failed to list log groups")
	}
	return toLogGroups(groups), nil
}

func toLogGroups(groups []logsTypes.LogGroup) []LogGroup {
	logGroups := make([]LogGroup, 0, len(groups))
	for _, group := range groups {
		logGroup := LogGroup{
			Name:            aws.ToString(group.LogGroupName),
			RetentionInDays: aws.ToInt32(group.RetentionInDays),
			StoredBytes:     aws.ToInt64(group.StoredBytes),
		}
		if group.CreationTime != nil {
			logGroup.CreationTime = time.UnixMilli(*group.CreationTime).UTC()
		}
		logGroups = append(logGroups, logGroup)
	}
	return logGroups
}

// PrintLogGroups writes one line per log group.
func PrintLogGroups(w io.Writer, groups []LogGroup) {
	for _, group := range groups {
		retention := "never expire"
		if group.RetentionInDays != 0 {
			retention = fmt.Sprintf("%d days", group.RetentionInDays)
		}
		fmt.Fprintf(w, "%-60s %-14s %13d\n", group.Name, retention, group.StoredBytes)
	}
}

// ExpireSummary counts what an expiry run did.
type ExpireSummary struct {
	Configured int
	Unchanged  int
	Skipped    int
	Failed     int
}

// Expirer applies a retention [Policy] to log groups.
type Expirer struct {
	client awsclient.CloudWatchLogsAPI
	out    io.Writer
	dryRun bool
}

func NewExpirer(client awsclient.CloudWatchLogsAPI, out io.Writer, dryRun bool) *Expirer {
	if out == nil {
		out = io.Discard
	}
	return &Expirer{
		client: client,
		out:    out,
		dryRun: dryRun,
	}
}

// Expire sets the retention of every log group the policy covers. A failure on
// one group does not stop the others; the returned error combines all of them.
func (e *Expirer) Expire(ctx context.Context, policy *Policy) (*ExpireSummary, error) {
	if err := policy.Check(); err != nil {
		return nil, trace.Wrap(err)
	}

	groups, err := ListLogGroups(ctx, e.client, 0)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	logger := logging.FromCtx(ctx)
	summary := &ExpireSummary{}
	var errs []error
	for _, group := range groups {
		days, ok := policy.DaysFor(group.Name)
		if !ok {
			summary.Skipped++
			continue
		}

		if group.RetentionInDays == days {
			logger.DebugContext(ctx, "Retention already set", "log_group", group.Name, "days", days)
			summary.Unchanged++
			continue
		}

		if e.dryRun {
			fmt.Fprintf(e.out, "%s %d bytes: would set retention to %d days\n", group.Name, group.StoredBytes, days)
			summary.Configured++
			continue
		}

		fmt.Fprintf(e.out, "%s %d bytes: setting retention to %d days\n", group.Name, group.StoredBytes, days)
		_, err := e.client.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
			LogGroupName:    aws.String(group.Name),
			RetentionInDays: aws.Int32(days),
		})
		if err != nil {
			logger.ErrorContext(ctx, "Failed to set retention", "log_group", group.Name, "error", err)
			errs = append(errs, trace.Wrap(err, "failed to set retention of log group %q", group.Name))
			summary.Failed++
			continue
		}
		summary.Configured++
	}

	return summary, trace.NewAggregate(errs...)
}
