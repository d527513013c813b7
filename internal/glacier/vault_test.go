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

package glacier

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glacier"
	glacierTypes "github.com/aws/aws-sdk-go-v2/service/glacier/types"
	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"

	"github.com/Cloudzero/aws-tools/internal/awsclient"
)

func TestLatestJob(t *testing.T) {
	older := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	tests := []struct {
		desc          string
		jobs          []Job
		expectedJobID string
	}{
		{
			desc: "no jobs",
		},
		{
			desc: "single job",
			jobs: []Job{
				{ID: "only", CreationDate: older},
			},
			expectedJobID: "only",
		},
		{
			desc: "newest wins regardless of order",
			jobs: []Job{
				{ID: "older", CreationDate: older},
				{ID: "newer", CreationDate: newer},
			},
			expectedJobID: "newer",
		},
		{
			desc: "first job wins ties",
			jobs: []Job{
				{ID: "first", CreationDate: older},
				{ID: "second", CreationDate: older},
			},
			expectedJobID: "first",
		},
		{
			desc: "jobs without a creation date are ignored",
			jobs: []Job{
				{ID: "undated"},
				{ID: "dated", CreationDate: older},
			},
			expectedJobID: "dated",
		},
		{
			desc: "only undated jobs",
			jobs: []Job{
				{ID: "undated"},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			vault := Vault{Name: "logs-backup", Jobs: test.jobs}
			latest := vault.LatestJob()
			if test.expectedJobID == "" {
				require.Nil(t, latest)
				return
			}
			require.NotNil(t, latest)
			require.Equal(t, test.expectedJobID, latest.ID)
		})
	}
}

func TestLatestInventory(t *testing.T) {
	older := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	vault := Vault{
		Jobs: []Job{
			{ID: "old-inventory", Action: glacierTypes.ActionCodeInventoryRetrieval, StatusCode: glacierTypes.StatusCodeSucceeded, Completed: true, CreationDate: older},
			{ID: "failed-inventory", Action: glacierTypes.ActionCodeInventoryRetrieval, StatusCode: glacierTypes.StatusCodeFailed, Completed: true, CreationDate: newer},
			{ID: "pending-inventory", Action: glacierTypes.ActionCodeInventoryRetrieval, StatusCode: glacierTypes.StatusCodeInProgress, CreationDate: newer},
			{ID: "archive", Action: glacierTypes.ActionCodeArchiveRetrieval, StatusCode: glacierTypes.StatusCodeSucceeded, Completed: true, CreationDate: newer},
		},
	}
	latest := vault.LatestInventory()
	require.NotNil(t, latest)
	require.Equal(t, "old-inventory", latest.ID)

	require.Nil(t, (&Vault{}).LatestInventory())
}

func TestListVaults(t *testing.T) {
	client := &awsclient.MockGlacierAPI{
		MockListVaults: func(ctx context.Context, params *glacier.ListVaultsInput, optFns ...func(*glacier.Options)) (*glacier.ListVaultsOutput, error) {
			require.Equal(t, awsclient.CurrentAccount, aws.ToString(params.AccountId))
			if params.Marker == nil {
				return &glacier.ListVaultsOutput{
					VaultList: []glacierTypes.DescribeVaultOutput{
						{
							VaultName:         aws.String("logs-backup"),
							VaultARN:          aws.String("arn:aws:glacier:us-east-1:123456789012:vaults/logs-backup"),
							NumberOfArchives:  3,
							SizeInBytes:       3072,
							CreationDate:      aws.String("2020-01-02T03:04:05.000Z"),
							LastInventoryDate: aws.String("2026-10-01T00:00:00.000Z"),
						},
					},
					Marker: aws.String("page-2"),
				}, nil
			}

			require.Equal(t, "page-2", aws.ToString(params.Marker))
			return &glacier.ListVaultsOutput{
				VaultList: []glacierTypes.DescribeVaultOutput{
					{
						VaultName:    aws.String("photos"),
						CreationDate: aws.String("not a date"),
					},
				},
			}, nil
		},
		MockListJobs: func(ctx context.Context, params *glacier.ListJobsInput, optFns ...func(*glacier.Options)) (*glacier.ListJobsOutput, error) {
			if aws.ToString(params.VaultName) != "logs-backup" {
				return &glacier.ListJobsOutput{}, nil
			}
			return &glacier.ListJobsOutput{
				JobList: []glacierTypes.GlacierJobDescription{
					{
						JobId:          aws.String("job-1"),
						Action:         glacierTypes.ActionCodeInventoryRetrieval,
						StatusCode:     glacierTypes.StatusCodeSucceeded,
						Completed:      true,
						CreationDate:   aws.String("2026-10-13T00:00:00.000Z"),
						CompletionDate: aws.String("2026-10-13T04:00:00.000Z"),
						JobDescription: aws.String(InventoryJobDescription),
					},
				},
			}, nil
		},
	}

	vaults, err := ListVaults(context.Background(), client, "")
	require.NoError(t, err)
	require.Len(t, vaults, 2)

	logsBackup := vaults[0]
	require.Equal(t, "logs-backup", logsBackup.Name)
	require.Equal(t, int64(3), logsBackup.ArchiveCount)
	require.Equal(t, int64(3072), logsBackup.SizeInBytes)
	require.Equal(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), logsBackup.CreationDate)
	require.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), logsBackup.LastInventoryDate)
	require.Len(t, logsBackup.Jobs, 1)
	require.Equal(t, Job{
		ID:             "job-1",
		Action:         glacierTypes.ActionCodeInventoryRetrieval,
		StatusCode:     glacierTypes.StatusCodeSucceeded,
		Description:    InventoryJobDescription,
		Completed:      true,
		CreationDate:   time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC),
		CompletionDate: time.Date(2026, 10, 13, 4, 0, 0, 0, time.UTC),
	}, logsBackup.Jobs[0])

	photos := vaults[1]
	require.Equal(t, "photos", photos.Name)
	require.True(t, photos.CreationDate.IsZero())
	require.True(t, photos.LastInventoryDate.IsZero())
	require.Empty(t, photos.Jobs)

	filtered, err := ListVaults(context.Background(), client, "logs-*")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "logs-backup", filtered[0].Name)
}

func TestListVaultsErrors(t *testing.T) {
	tests := []struct {
		desc   string
		client *awsclient.MockGlacierAPI
	}{
		{
			desc: "fail if listing vaults errors",
			client: &awsclient.MockGlacierAPI{
				MockListVaults: func(ctx context.Context, params *glacier.ListVaultsInput, optFns ...func(*glacier.Options)) (*glacier.ListVaultsOutput, error) {
					return nil, trace.Errorf("some API call error")
				},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			_, err := ListVaults(context.Background(), test.client, "*")
			require.Error(t, err)
		})
	}

	t.Run("fail on an invalid pattern", func(t *testing.T) {
		_, err := ListVaults(context.Background(), &awsclient.MockGlacierAPI{}, "[")
		require.Error(t, err)
		require.True(t, trace.IsBadParameter(err))
	})
}

func TestListVaultsKeepsVaultsWhoseJobsFail(t *testing.T) {
	client := &awsclient.MockGlacierAPI{
		MockListVaults: func(ctx context.Context, params *glacier.ListVaultsInput, optFns ...func(*glacier.Options)) (*glacier.ListVaultsOutput, error) {
			return &glacier.ListVaultsOutput{
				VaultList: []glacierTypes.DescribeVaultOutput{
					{VaultName: aws.String("throttled"), NumberOfArchives: 2},
					{VaultName: aws.String("healthy")},
				},
			}, nil
		},
		MockListJobs: func(ctx context.Context, params *glacier.ListJobsInput, optFns ...func(*glacier.Options)) (*glacier.ListJobsOutput, error) {
			if aws.ToString(params.VaultName) == "throttled" {
				return nil, trace.Errorf("ThrottlingException: rate exceeded")
			}
			return &glacier.ListJobsOutput{}, nil
		},
	}

	vaults, err := ListVaults(context.Background(), client, "*")
	require.NoError(t, err)
	require.Len(t, vaults, 2)

	require.Equal(t, "throttled", vaults[0].Name)
	require.Error(t, vaults[0].JobsErr)
	require.Empty(t, vaults[0].Jobs)

	require.Equal(t, "healthy", vaults[1].Name)
	require.NoError(t, vaults[1].JobsErr)
}
