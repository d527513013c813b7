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
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glacier"
	"github.com/gravitational/trace"
	"github.com/relvacode/iso8601"

	"github.com/Cloudzero/aws-tools/internal/awsclient"
	"github.com/Cloudzero/aws-tools/internal/logging"
)

// TagPrefix namespaces every tag this tool writes on a vault.
const TagPrefix = "CLOUDZERO_GLACIER_TOOLS"

// TagAction names the action a timestamp tag records.
type TagAction string

const (
	TagActionRefresh TagAction = "REFRESH"
	TagActionDelete  TagAction = "DELETE"
)

var tagActions = []TagAction{TagActionRefresh, TagActionDelete}

// Key returns the vault tag key for the action.
func (a TagAction) Key() string {
	return TagPrefix + "_" + string(a)
}

// TagStore records when this tool last started an action on a vault.
type TagStore interface {
	// Timestamps returns when each action was last recorded for the vault. Actions
	// with nothing usable recorded are left out of the map; that is not an error.
	Timestamps(ctx context.Context, vaultName string) (map[TagAction]time.Time, error)
	// SetTimestamp records t for the action, replacing any previous value.
	SetTimestamp(ctx context.Context, vaultName string, action TagAction, t time.Time) error
}

// VaultTagStore is a [TagStore] backed by Glacier vault tags.
type VaultTagStore struct {
	client awsclient.GlacierAPI
}

var _ TagStore = &VaultTagStore{}

func NewVaultTagStore(client awsclient.GlacierAPI) *VaultTagStore {
	return &VaultTagStore{client: client}
}

// Timestamps lists the vault tags once and returns every timestamp recorded in them.
func (vts *VaultTagStore) Timestamps(ctx context.Context, vaultName string) (map[TagAction]time.Time, error) {
	output, err := vts.client.ListTagsForVault(ctx, &glacier.ListTagsForVaultInput{
		AccountId: aws.String(awsclient.CurrentAccount),
		VaultName: aws.String(vaultName),
	})
	if err != nil {
		return nil, trace.Wrap(err, "failed to list tags for vault %q", vaultName)
	}

	timestamps := make(map[TagAction]time.Time, len(tagActions))
	for _, action := range tagActions {
		value, ok := output.Tags[action.Key()]
		if !ok {
			continue
		}

		timestamp, ok := ParseTimestamp(value)
		if !ok {
			logging.FromCtx(ctx).DebugContext(ctx, "Ignoring malformed timestamp tag", "vault", vaultName, "tag", action.Key(), "value", value)
			continue
		}
		timestamps[action] = timestamp
	}
	return timestamps, nil
}

func (vts *VaultTagStore) SetTimestamp(ctx context.Context, vaultName string, action TagAction, t time.Time) error {
	_, err := vts.client.AddTagsToVault(ctx, &glacier.AddTagsToVaultInput{
		AccountId: aws.String(awsclient.CurrentAccount),
		VaultName: aws.String(vaultName),
		Tags: map[string]string{
			action.Key(): FormatTimestamp(t),
		},
	})
	if err != nil {
		return trace.Wrap(err, "failed to tag vault %q with %s", vaultName, action.Key())
	}
	return nil
}

// FormatTimestamp renders t the way it is stored in a tag.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp parses a tag value. Any ISO 8601 timestamp is accepted, so values
// written with a UTC offset rather than "Z" are read as well.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	timestamp, err := iso8601.ParseString(value)
	if err != nil {
		return time.Time{}, false
	}
	return timestamp.UTC(), true
}
