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
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glacier"
	glacierTypes "github.com/aws/aws-sdk-go-v2/service/glacier/types"
	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/Cloudzero/aws-tools/internal/awsclient"
	"github.com/Cloudzero/aws-tools/internal/logging"
)

// Outcome is what happened to a vault during one run.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeVaultDeleted
	OutcomeRefreshStarted
	OutcomeDeleteStarted
	OutcomeWaiting
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVaultDeleted:
		return "vault-deleted"
	case OutcomeRefreshStarted:
		return "refresh-started"
	case OutcomeDeleteStarted:
		return "delete-started"
	case OutcomeWaiting:
		return "waiting"
	default:
		return "failed"
	}
}

// VaultResult is the result of processing a single vault.
type VaultResult struct {
	Vault   string
	Phase   Phase
	Outcome Outcome
	// ArchivesDeleted is the number of archives deleted, or that would be deleted on a dry run.
	ArchivesDeleted int
	Err             error
}

// Summary collects the result of every vault processed in a run.
type Summary struct {
	DryRun  bool
	Results []VaultResult
}

// Count returns how many vaults ended with the given outcome.
func (s *Summary) Count(outcome Outcome) int {
	count := 0
	for _, result := range s.Results {
		if result.Outcome == outcome {
			count++
		}
	}
	return count
}

// ArchivesDeleted is the total number of archives deleted across all vaults.
func (s *Summary) ArchivesDeleted() int {
	total := 0
	for _, result := range s.Results {
		total += result.ArchivesDeleted
	}
	return total
}

// Err combines every per-vault failure. It is nil when no vault failed.
func (s *Summary) Err() error {
	return trace.NewAggregate(s.errors()...)
}

func (s *Summary) errors() []error {
	var errs []error
	for _, result := range s.Results {
		if result.Err != nil {
			errs = append(errs, trace.Wrap(result.Err, "vault %q", result.Vault))
		}
	}
	return errs
}

// Orchestrator moves every vault one step further along the deletion workflow.
type Orchestrator struct {
	client  awsclient.GlacierAPI
	tags    TagStore
	clock   clockwork.Clock
	limiter *rate.Limiter
	out     io.Writer
	dryRun  bool
}

type OrchestratorOption func(o *Orchestrator)

// WithTagStore replaces the vault tag backed store.
func WithTagStore(tags TagStore) OrchestratorOption {
	return func(o *Orchestrator) {
		o.tags = tags
	}
}

// WithClock sets the clock used for cooldowns and for recorded timestamps.
func WithClock(clock clockwork.Clock) OrchestratorOption {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithDeleteRate paces archive deletions to perSecond, allowing burst back to back calls.
func WithDeleteRate(perSecond float64, burst int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithOutput sets where progress for each vault is printed.
func WithOutput(out io.Writer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.out = out
	}
}

// WithDryRun reports what would be done without changing anything.
func WithDryRun(dryRun bool) OrchestratorOption {
	return func(o *Orchestrator) {
		o.dryRun = dryRun
	}
}

func NewOrchestrator(client awsclient.GlacierAPI, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		client:  client,
		tags:    NewVaultTagStore(client),
		clock:   clockwork.NewRealClock(),
		limiter: rate.NewLimiter(10, 10),
		out:     io.Discard,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run processes each vault once, in order. A failure on one vault is recorded
// and the remaining vaults are still processed. The returned error combines
// every per-vault failure; vaults left waiting are not failures.
func (o *Orchestrator) Run(ctx context.Context, vaults []Vault) (*Summary, error) {
	summary := &Summary{
		DryRun:  o.dryRun,
		Results: make([]VaultResult, 0, len(vaults)),
	}

	for i := range vaults {
		if err := ctx.Err(); err != nil {
			errs := append(summary.errors(), trace.Wrap(err, "stopped before vault %q", vaults[i].Name))
			return summary, trace.NewAggregate(errs...)
		}

		result := o.processVault(ctx, &vaults[i])
		if result.Err != nil {
			logging.FromCtx(ctx).ErrorContext(ctx, "Failed to process vault", "vault", result.Vault, "phase", result.Phase, "error", result.Err)
			o.printf(" - Vault %q %s: %v\n", result.Vault, failedLabel(), result.Err)
		}
		summary.Results = append(summary.Results, result)
	}

	return summary, summary.Err()
}

func (o *Orchestrator) processVault(ctx context.Context, vault *Vault) VaultResult {
	logger := logging.FromCtx(ctx).With("vault", vault.Name)
	ctx = logging.ToCtx(ctx, logger)

	if vault.JobsErr != nil {
		return VaultResult{Vault: vault.Name, Outcome: OutcomeFailed, Err: vault.JobsErr}
	}

	state, err := o.vaultState(ctx, vault)
	if err != nil {
		return VaultResult{Vault: vault.Name, Outcome: OutcomeFailed, Err: err}
	}

	phase := Classify(state, o.clock.Now())
	logger.DebugContext(ctx, "Classified vault", "phase", phase, "archives", vault.ArchiveCount,
		"refreshed_at", state.RefreshedAt, "deleted_at", state.DeletedAt)

	result := VaultResult{Vault: vault.Name, Phase: phase}
	switch phase {
	case PhaseEmpty:
		result.Outcome, result.Err = o.deleteVault(ctx, vault)
	case PhaseDeleteInProgress:
		o.printf(" - Archive deletion for vault %q %s, it can take up to 24 hours to complete\n", vault.Name, waitingLabel())
		result.Outcome = OutcomeWaiting
	case PhaseReadyForDelete:
		result.Outcome, result.ArchivesDeleted, result.Err = o.deleteArchives(ctx, vault)
	case PhaseRefreshInProgress:
		o.printf(" - Inventory refresh for vault %q %s, please try again later\n", vault.Name, waitingLabel())
		result.Outcome = OutcomeWaiting
	default:
		result.Outcome, result.Err = o.refreshInventory(ctx, vault)
	}

	if result.Err != nil {
		result.Outcome = OutcomeFailed
	}
	return result
}

// vaultState reads the timestamp tags for the vault. Empty vaults are classified
// on their archive count alone so their tags are never read.
func (o *Orchestrator) vaultState(ctx context.Context, vault *Vault) (VaultState, error) {
	state := VaultState{
		ArchiveCount: vault.ArchiveCount,
		LatestJob:    vault.LatestJob(),
	}
	if state.ArchiveCount == 0 {
		return state, nil
	}

	timestamps, err := o.tags.Timestamps(ctx, vault.Name)
	if err != nil {
		return state, trace.Wrap(err, "failed to read timestamp tags")
	}
	state.RefreshedAt = timestamps[TagActionRefresh]
	state.DeletedAt = timestamps[TagActionDelete]

	return state, nil
}

func (o *Orchestrator) deleteVault(ctx context.Context, vault *Vault) (Outcome, error) {
	if o.dryRun {
		o.printf(" - Vault %q is empty, would delete it\n", vault.Name)
		return OutcomeVaultDeleted, nil
	}

	o.printf(" - Vault %q is empty, deleting\n", vault.Name)
	_, err := o.client.DeleteVault(ctx, &glacier.DeleteVaultInput{
		AccountId: aws.String(awsclient.CurrentAccount),
		VaultName: aws.String(vault.Name),
	})
	if awsclient.IsNotFound(err) {
		logging.FromCtx(ctx).DebugContext(ctx, "Vault was already deleted")
		return OutcomeVaultDeleted, nil
	}
	if err != nil {
		return OutcomeFailed, trace.Wrap(err, "failed to delete vault")
	}
	return OutcomeVaultDeleted, nil
}

func (o *Orchestrator) refreshInventory(ctx context.Context, vault *Vault) (Outcome, error) {
	if o.dryRun {
		o.printf(" - Would refresh inventory for vault %q\n", vault.Name)
		return OutcomeRefreshStarted, nil
	}

	o.printf(" - Refreshing inventory for vault %q\n", vault.Name)
	output, err := o.client.InitiateJob(ctx, &glacier.InitiateJobInput{
		AccountId: aws.String(awsclient.CurrentAccount),
		VaultName: aws.String(vault.Name),
		JobParameters: &glacierTypes.JobParameters{
			Type:        aws.String(inventoryJobType),
			Format:      aws.String(inventoryJobFormat),
			Description: aws.String(InventoryJobDescription),
		},
	})
	if err != nil {
		return OutcomeFailed, trace.Wrap(err, "failed to start inventory retrieval")
	}
	logging.FromCtx(ctx).InfoContext(ctx, "Started inventory retrieval", "job_id", aws.ToString(output.JobId))

	// Recorded as soon as the job starts, the cooldown counts from here
	if err := o.tags.SetTimestamp(ctx, vault.Name, TagActionRefresh, o.clock.Now()); err != nil {
		return OutcomeFailed, trace.Wrap(err, "started inventory retrieval %q but failed to record it", aws.ToString(output.JobId))
	}
	return OutcomeRefreshStarted, nil
}

// deleteArchives deletes every archive listed by the latest successful inventory.
// When Glacier no longer lists such a job the vault goes back to waiting on, or
// starting, a refresh.
func (o *Orchestrator) deleteArchives(ctx context.Context, vault *Vault) (Outcome, int, error) {
	logger := logging.FromCtx(ctx)

	inventoryJob := vault.LatestInventory()
	if inventoryJob == nil {
		if latest := vault.LatestJob(); latest.IsInventoryRetrieval() && !latest.Completed {
			logger.InfoContext(ctx, "Refresh is past its cooldown but the inventory job is still running", "job_id", latest.ID)
			o.printf(" - Inventory refresh for vault %q %s, please try again later\n", vault.Name, waitingLabel())
			return OutcomeWaiting, 0, nil
		}

		logger.InfoContext(ctx, "No completed inventory is available, starting a new one")
		outcome, err := o.refreshInventory(ctx, vault)
		return outcome, 0, trace.Wrap(err)
	}

	inventory, err := o.fetchInventory(ctx, vault.Name, inventoryJob.ID)
	if err != nil {
		return OutcomeFailed, 0, trace.Wrap(err)
	}

	if o.dryRun {
		o.printf(" - Would delete %d archives from vault %q\n", len(inventory.Archives), vault.Name)
		return OutcomeDeleteStarted, len(inventory.Archives), nil
	}

	o.printf(" - Starting delete of all archives from vault %q\n", vault.Name)
	deleted := 0
	for _, archive := range inventory.Archives {
		if err := o.limiter.Wait(ctx); err != nil {
			return OutcomeFailed, deleted, trace.Wrap(err, "stopped after deleting %d archives", deleted)
		}

		_, err := o.client.DeleteArchive(ctx, &glacier.DeleteArchiveInput{
			AccountId: aws.String(awsclient.CurrentAccount),
			VaultName: aws.String(vault.Name),
			ArchiveId: aws.String(archive.ArchiveID),
		})
		switch {
		case awsclient.IsNotFound(err):
			logger.DebugContext(ctx, "Archive was already deleted", "archive_id", archive.ArchiveID)
		case err != nil:
			return OutcomeFailed, deleted, trace.Wrap(err, "failed to delete archive %q after deleting %d archives", archive.ArchiveID, deleted)
		default:
			logger.DebugContext(ctx, "Deleted archive", "archive_id", archive.ArchiveID)
		}
		deleted++
	}

	if err := o.tags.SetTimestamp(ctx, vault.Name, TagActionDelete, o.clock.Now()); err != nil {
		return OutcomeFailed, deleted, trace.Wrap(err, "deleted %d archives but failed to record it", deleted)
	}

	o.printf(" - Delete process started for %d archives, it can take up to 24 hours for this to complete\n", deleted)
	logger.InfoContext(ctx, "Deleted archives", slog.Int("count", deleted))
	return OutcomeDeleteStarted, deleted, nil
}

func (o *Orchestrator) fetchInventory(ctx context.Context, vaultName, jobID string) (*Inventory, error) {
	output, err := o.client.GetJobOutput(ctx, &glacier.GetJobOutputInput{
		AccountId: aws.String(awsclient.CurrentAccount),
		VaultName: aws.String(vaultName),
		JobId:     aws.String(jobID),
	})
	if err != nil {
		return nil, trace.Wrap(err, "failed to get output of inventory job %q", jobID)
	}
	if output.Body == nil {
		return nil, trace.BadParameter("inventory job %q returned no output", jobID)
	}
	defer output.Body.Close()

	inventory, err := ParseInventory(output.Body)
	if err != nil {
		return nil, trace.Wrap(err, "failed to read output of inventory job %q", jobID)
	}
	return inventory, nil
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}
