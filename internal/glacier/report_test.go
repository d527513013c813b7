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
	"bytes"
	"strings"
	"testing"
	"time"

	glacierTypes "github.com/aws/aws-sdk-go-v2/service/glacier/types"
	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestPrintVaults(t *testing.T) {
	vaults := []Vault{
		{
			Name:         "logs-backup",
			ARN:          "arn:aws:glacier:us-east-1:123456789012:vaults/logs-backup",
			ArchiveCount: 3,
			SizeInBytes:  3072,
			CreationDate: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
			Jobs: []Job{{
				Action:       glacierTypes.ActionCodeInventoryRetrieval,
				StatusCode:   glacierTypes.StatusCodeInProgress,
				CreationDate: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
				Description:  InventoryJobDescription,
			}},
		},
	}

	var quiet bytes.Buffer
	PrintVaults(&quiet, vaults, false)
	lines := strings.Split(strings.TrimSpace(quiet.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "Name"))
	require.Contains(t, lines[1], "logs-backup")
	require.Contains(t, lines[1], "2020-01-02T03:04:05Z")
	require.Contains(t, lines[1], "3072")
	require.Contains(t, lines[1], "arn:aws:glacier:us-east-1:123456789012:vaults/logs-backup")
	require.NotContains(t, quiet.String(), "JOB")

	var verbose bytes.Buffer
	PrintVaults(&verbose, vaults, true)
	require.Contains(t, verbose.String(), " - JOB: InventoryRetrieval")
	require.Contains(t, verbose.String(), "InProgress")
	require.Contains(t, verbose.String(), InventoryJobDescription)

	var unknownJobs bytes.Buffer
	PrintVaults(&unknownJobs, []Vault{{Name: "throttled", JobsErr: trace.Errorf("throttled")}}, false)
	require.Contains(t, unknownJobs.String(), " ? ")
}

func TestPrintSummary(t *testing.T) {
	summary := &Summary{
		Results: []VaultResult{
			{Vault: "a", Outcome: OutcomeVaultDeleted},
			{Vault: "b", Outcome: OutcomeRefreshStarted},
			{Vault: "c", Outcome: OutcomeDeleteStarted, ArchivesDeleted: 3},
			{Vault: "d", Outcome: OutcomeWaiting},
			{Vault: "e", Outcome: OutcomeFailed, Err: trace.Errorf("throttled")},
		},
	}

	var out bytes.Buffer
	PrintSummary(&out, summary)
	require.Equal(t,
		"5 vaults processed: 1 empty vaults deleted, 1 inventory refreshes started, 1 archive deletes started (3 archives), 1 waiting, 1 errors\n",
		out.String())

	out.Reset()
	summary.DryRun = true
	PrintSummary(&out, summary)
	require.True(t, strings.HasPrefix(out.String(), "Dry run: "))
}
