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
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
)

const vaultRowFormat = "%-35s %-25s %-25s %13s %13s %5s %s\n"

var (
	waitingColor = color.New(color.FgYellow)
	failedColor  = color.New(color.FgRed, color.Bold)
	doneColor    = color.New(color.FgGreen)
)

func waitingLabel() string {
	return waitingColor.Sprint("is in progress")
}

func failedLabel() string {
	return failedColor.Sprint("failed")
}

// PrintVaults writes a table of vaults. When verbose, each vault is followed by its jobs.
func PrintVaults(w io.Writer, vaults []Vault, verbose bool) {
	fmt.Fprintf(w, vaultRowFormat, "Name", "Created", "Last inventory", "# of Archives", "Size (bytes)", "Jobs", "ARN")
	for _, vault := range vaults {
		jobs := strconv.Itoa(len(vault.Jobs))
		if vault.JobsErr != nil {
			jobs = "?"
		}
		fmt.Fprintf(w, vaultRowFormat,
			vault.Name,
			formatDate(vault.CreationDate),
			formatDate(vault.LastInventoryDate),
			strconv.FormatInt(vault.ArchiveCount, 10),
			strconv.FormatInt(vault.SizeInBytes, 10),
			jobs,
			vault.ARN,
		)

		if !verbose || len(vault.Jobs) == 0 {
			continue
		}
		for _, job := range vault.Jobs {
			fmt.Fprintf(w, " - JOB: %-18s %-15s %-25s %s\n", job.Action, job.StatusCode, formatDate(job.CreationDate), job.Description)
		}
		fmt.Fprintln(w)
	}
}

// PrintSummary writes the totals for a run.
func PrintSummary(w io.Writer, summary *Summary) {
	prefix := ""
	if summary.DryRun {
		prefix = "Dry run: "
	}

	errorCount := summary.Count(OutcomeFailed)
	errorText := fmt.Sprintf("%d errors", errorCount)
	if errorCount > 0 {
		errorText = failedColor.Sprint(errorText)
	} else {
		errorText = doneColor.Sprint(errorText)
	}

	fmt.Fprintf(w, "%s%d vaults processed: %d empty vaults deleted, %d inventory refreshes started, %d archive deletes started (%d archives), %d waiting, %s\n",
		prefix,
		len(summary.Results),
		summary.Count(OutcomeVaultDeleted),
		summary.Count(OutcomeRefreshStarted),
		summary.Count(OutcomeDeleteStarted),
		summary.ArchivesDeleted(),
		summary.Count(OutcomeWaiting),
		errorText,
	)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
