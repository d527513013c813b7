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
	"time"
)

// Phase is where a vault is in the deletion workflow.
type Phase int

const (
	// PhaseNeedsRefresh means a new inventory retrieval should be started.
	PhaseNeedsRefresh Phase = iota
	// PhaseEmpty means the vault holds no archives and can be deleted.
	PhaseEmpty
	// PhaseDeleteInProgress means archives were deleted less than a cooldown ago.
	PhaseDeleteInProgress
	// PhaseReadyForDelete means a usable inventory exists and archives can be deleted.
	PhaseReadyForDelete
	// PhaseRefreshInProgress means an inventory retrieval started by this tool is still running.
	PhaseRefreshInProgress
)

func (p Phase) String() string {
	switch p {
	case PhaseNeedsRefresh:
		return "needs-refresh"
	case PhaseEmpty:
		return "empty"
	case PhaseDeleteInProgress:
		return "delete-in-progress"
	case PhaseReadyForDelete:
		return "ready-for-delete"
	case PhaseRefreshInProgress:
		return "refresh-in-progress"
	default:
		return "unknown"
	}
}

// VaultState is everything classification looks at.
type VaultState struct {
	ArchiveCount int64
	// LatestJob is nil when the vault has no jobs.
	LatestJob *Job
	// RefreshedAt is zero if this tool never started an inventory refresh.
	RefreshedAt time.Time
	// DeletedAt is zero if this tool never deleted archives from the vault.
	DeletedAt time.Time
}

// Classify places a vault in exactly one phase. Checks run in priority order
// and the first match wins.
func Classify(state VaultState, now time.Time) Phase {
	switch {
	case state.ArchiveCount == 0:
		return PhaseEmpty
	case isDeleteInProgress(state, now):
		return PhaseDeleteInProgress
	case isInventoryRefreshed(state, now):
		return PhaseReadyForDelete
	case isRefreshInProgress(state):
		return PhaseRefreshInProgress
	default:
		return PhaseNeedsRefresh
	}
}

func isDeleteInProgress(state VaultState, now time.Time) bool {
	if state.DeletedAt.IsZero() {
		return false
	}
	return !CooldownElapsed(now, state.DeletedAt) && isInventoryRefreshed(state, now)
}

func isInventoryRefreshed(state VaultState, now time.Time) bool {
	if state.RefreshedAt.IsZero() {
		return false
	}
	if state.LatestJob.IsInventoryRetrieval() && state.LatestJob.Completed {
		return true
	}
	// Past the cooldown the refresh is accepted even though no finished job confirms it
	return CooldownElapsed(now, state.RefreshedAt)
}

func isRefreshInProgress(state VaultState) bool {
	if state.RefreshedAt.IsZero() {
		return false
	}
	return state.LatestJob.IsInventoryRetrieval() && !state.LatestJob.Completed
}
