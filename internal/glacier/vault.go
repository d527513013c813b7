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

// Package glacier lists Glacier vaults and drives the multi-day workflow that
// empties and deletes them. The tool keeps no local state: every invocation
// reconstructs where each vault is from its job list and from timestamp tags
// written on the vault by earlier invocations.
package glacier

import (
	"context"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glacier"
	glacierTypes "github.com/aws/aws-sdk-go-v2/service/glacier/types"
	"github.com/gravitational/trace"
	"github.com/relvacode/iso8601"

	"github.com/Cloudzero/aws-tools/internal/awsclient"
	"github.com/Cloudzero/aws-tools/internal/logging"
)

// Vault is a Glacier vault along with the jobs Glacier still reports for it.
type Vault struct {
	Name string
	ARN  string
	// ArchiveCount is only as fresh as the last inventory Glacier ran on the vault.
	ArchiveCount int64
	SizeInBytes  int64
	CreationDate time.Time
	// LastInventoryDate is zero if Glacier has never inventoried the vault.
	LastInventoryDate time.Time
	Jobs              []Job
	// JobsErr is set when the jobs of this vault could not be listed. Jobs is
	// then empty, and the vault cannot be classified.
	JobsErr error
}

// Job is an asynchronous Glacier job against a vault.
type Job struct {
	ID          string
	Action      glacierTypes.ActionCode
	StatusCode  glacierTypes.StatusCode
	Description string
	Completed   bool
	// CreationDate is zero when Glacier returned a date that could not be parsed.
	CreationDate time.Time
	// CompletionDate is zero until the job completes.
	CompletionDate time.Time
}

// IsInventoryRetrieval reports whether the job produces a vault inventory.
func (j *Job) IsInventoryRetrieval() bool {
	return j != nil && j.Action == glacierTypes.ActionCodeInventoryRetrieval
}

// LatestJob returns the job created most recently, or nil if there are no jobs
// with a usable creation date. The first job wins ties.
func (v *Vault) LatestJob() *Job {
	var latest *Job
	for i := range v.Jobs {
		job := &v.Jobs[i]
		if job.CreationDate.IsZero() {
			continue
		}
		if latest == nil || job.CreationDate.After(latest.CreationDate) {
			latest = job
		}
	}
	return latest
}

// LatestInventory returns the most recent inventory retrieval that completed successfully,
// which is the one whose output lists the archives currently in the vault.
func (v *Vault) LatestInventory() *Job {
	var latest *Job
	for i := range v.Jobs {
		job := &v.Jobs[i]
		if !job.IsInventoryRetrieval() || !job.Completed || job.StatusCode != glacierTypes.StatusCodeSucceeded {
			continue
		}
		if latest == nil || job.CreationDate.After(latest.CreationDate) {
			latest = job
		}
	}
	return latest
}

// ListVaults returns every vault whose name matches the glob pattern, with its jobs.
// Only a failure to enumerate the vaults is returned. A vault whose jobs cannot be
// listed is still returned, with the failure in [Vault.JobsErr].
func ListVaults(ctx context.Context, client awsclient.GlacierAPI, pattern string) ([]Vault, error) {
	if pattern == "" {
		pattern = "*"
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, trace.BadParameter("invalid vault name pattern %q: %v", pattern, err)
	}

	logger := logging.FromCtx(ctx)

	descriptions, err := awsclient.GetAllWithPagination(
		func(previousToken *string) (*string, []glacierTypes.DescribeVaultOutput, error) {
			results, err := client.ListVaults(ctx, &glacier.ListVaultsInput{
				AccountId: aws.String(awsclient.CurrentAccount),
				Marker:    previousToken,
			})
			if err != nil {
				return nil, nil, trace.Wrap(err, "failed to request vaults")
			}

			return results.Marker, results.VaultList, nil
		},
	)
	if err != nil {
		return nil, trace.Wrap(err, "failed to list vaults")
	}

	vaults := make([]Vault, 0, len(descriptions))
	for _, description := range descriptions {
		name := aws.ToString(description.VaultName)
		// The pattern was validated above so this cannot fail
		if matched, _ := path.Match(pattern, name); !matched {
			logger.DebugContext(ctx, "Skipping vault that does not match pattern", "vault", name, "pattern", pattern)
			continue
		}

		vault := vaultFromDescription(ctx, description)
		vault.Jobs, vault.JobsErr = listJobs(ctx, client, name)
		if vault.JobsErr != nil {
			logger.WarnContext(ctx, "Failed to list jobs", "vault", name, "error", vault.JobsErr)
			vault.JobsErr = trace.Wrap(vault.JobsErr, "failed to list jobs")
		}

		vaults = append(vaults, vault)
	}

	return vaults, nil
}

func listJobs(ctx context.Context, client awsclient.GlacierAPI, vaultName string) ([]Job, error) {
	descriptions, err := awsclient.GetAllWithPagination(
		func(previousToken *string) (*string, []glacierTypes.GlacierJobDescription, error) {
			results, err := client.ListJobs(ctx, &glacier.ListJobsInput{
				AccountId: aws.String(awsclient.CurrentAccount),
				VaultName: aws.String(vaultName),
				Marker:    previousToken,
			})
			if err != nil {
				return nil, nil, trace.Wrap(err, "failed to request jobs")
			}

			return results.Marker, results.JobList, nil
		},
	)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	jobs := make([]Job, 0, len(descriptions))
	for _, description := range descriptions {
		jobs = append(jobs, jobFromDescription(ctx, description))
	}
	return jobs, nil
}

func vaultFromDescription(ctx context.Context, description glacierTypes.DescribeVaultOutput) Vault {
	name := aws.ToString(description.VaultName)
	return Vault{
		Name:              name,
		ARN:               aws.ToString(description.VaultARN),
		ArchiveCount:      description.NumberOfArchives,
		SizeInBytes:       description.SizeInBytes,
		CreationDate:      parseDate(ctx, description.CreationDate, "vault", name),
		LastInventoryDate: parseDate(ctx, description.LastInventoryDate, "vault", name),
	}
}

func jobFromDescription(ctx context.Context, description glacierTypes.GlacierJobDescription) Job {
	id := aws.ToString(description.JobId)
	job := Job{
		ID:           id,
		Action:       description.Action,
		StatusCode:   description.StatusCode,
		Description:  aws.ToString(description.JobDescription),
		Completed:    description.Completed,
		CreationDate: parseDate(ctx, description.CreationDate, "job", id),
	}
	if job.Completed {
		job.CompletionDate = parseDate(ctx, description.CompletionDate, "job", id)
	}
	return job
}

// parseDate parses an ISO 8601 date returned by Glacier. Missing or malformed
// dates become the zero time.
func parseDate(ctx context.Context, value *string, kind, name string) time.Time {
	if value == nil || *value == "" {
		return time.Time{}
	}

	parsed, err := iso8601.ParseString(*value)
	if err != nil {
		logging.FromCtx(ctx).DebugContext(ctx, "Ignoring unparseable date", slog.String(kind, name), "date", *value, "error", err)
		return time.Time{}
	}
	return parsed.UTC()
}
