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
	"encoding/json"
	"io"

	"github.com/gravitational/trace"
)

const (
	inventoryJobType   = "inventory-retrieval"
	inventoryJobFormat = "JSON"
	// InventoryJobDescription is attached to every inventory retrieval this tool starts.
	InventoryJobDescription = "aws-tools glacier inventory retrieval"
)

// Inventory is the output of a JSON inventory retrieval job.
type Inventory struct {
	VaultARN      string
	InventoryDate string
	Archives      []InventoryArchive
}

// InventoryArchive is a single archive listed in an inventory.
type InventoryArchive struct {
	ArchiveID          string `json:"ArchiveId"`
	ArchiveDescription string `json:"ArchiveDescription"`
	CreationDate       string `json:"CreationDate"`
	Size               int64  `json:"Size"`
	SHA256TreeHash     string `json:"SHA256TreeHash"`
}

// ParseInventory decodes inventory job output. Output without an archive list, or
// with an archive that has no ID, is rejected.
func ParseInventory(r io.Reader) (*Inventory, error) {
	var document struct {
		VaultARN      string              `json:"VaultARN"`
		InventoryDate string              `json:"InventoryDate"`
		ArchiveList   *[]InventoryArchive `json:"ArchiveList"`
	}
	if err := json.NewDecoder(r).Decode(&document); err != nil {
		return nil, trace.Wrap(err, "failed to decode inventory")
	}

	if document.ArchiveList == nil {
		return nil, trace.BadParameter("inventory for %q has no ArchiveList", document.VaultARN)
	}

	for i, archive := range *document.ArchiveList {
		if archive.ArchiveID == "" {
			return nil, trace.BadParameter("inventory for %q lists an archive without an ArchiveId at index %d", document.VaultARN, i)
		}
	}

	return &Inventory{
		VaultARN:      document.VaultARN,
		InventoryDate: document.InventoryDate,
		Archives:      *document.ArchiveList,
	}, nil
}
