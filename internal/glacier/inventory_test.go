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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInventory(t *testing.T) {
	tests := []struct {
		desc               string
		document           string
		expectedArchiveIDs []string
		shouldError        bool
	}{
		{
			desc: "archives are listed",
			document: `{
				"VaultARN": "arn:aws:glacier:us-east-1:123456789012:vaults/logs-backup",
				"InventoryDate": "2026-10-13T04:00:00Z",
				"ArchiveList": [
					{"ArchiveId": "a1", "ArchiveDescription": "", "CreationDate": "2020-01-02T03:04:05Z", "Size": 1024, "SHA256TreeHash": "abc"},
					{"ArchiveId": "a2"},
					{"ArchiveId": "a3"}
				]
			}`,
			expectedArchiveIDs: []string{"a1", "a2", "a3"},
		},
		{
			desc:               "empty archive list",
			document:           `{"ArchiveList": []}`,
			expectedArchiveIDs: []string{},
		},
		{
			desc:        "missing archive list",
			document:    `{"VaultARN": "arn:aws:glacier:us-east-1:123456789012:vaults/logs-backup"}`,
			shouldError: true,
		},
		{
			desc:        "null archive list",
			document:    `{"ArchiveList": null}`,
			shouldError: true,
		},
		{
			desc:        "archive without an ID",
			document:    `{"ArchiveList": [{"ArchiveId": "a1"}, {"Size": 10}]}`,
			shouldError: true,
		},
		{
			desc:        "not JSON",
			document:    `ArchiveId,Size`,
			shouldError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			inventory, err := ParseInventory(strings.NewReader(test.document))
			if test.shouldError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			archiveIDs := make([]string, 0, len(inventory.Archives))
			for _, archive := range inventory.Archives {
				archiveIDs = append(archiveIDs, archive.ArchiveID)
			}
			require.Equal(t, test.expectedArchiveIDs, archiveIDs)
		})
	}
}
