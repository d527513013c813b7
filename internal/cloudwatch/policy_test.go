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

package cloudwatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestIsValidRetention(t *testing.T) {
	require.True(t, IsValidRetention(1))
	require.True(t, IsValidRetention(120))
	require.True(t, IsValidRetention(3653))
	require.False(t, IsValidRetention(0))
	require.False(t, IsValidRetention(2))
	require.False(t, IsValidRetention(-7))
}

func TestPolicyDaysFor(t *testing.T) {
	policy := &Policy{
		DefaultDays: 120,
		Rules: []Rule{
			{Filter: "/aws/lambda/", Days: 14},
			{Filter: "/aws/lambda/important", Days: 365},
			{Filter: "audit", Days: 3653},
		},
	}

	tests := []struct {
		desc         string
		logGroup     string
		expectedDays int32
		expectedOK   bool
	}{
		{desc: "first matching rule wins", logGroup: "/aws/lambda/important-function", expectedDays: 14, expectedOK: true},
		{desc: "substring match", logGroup: "/org/audit/trail", expectedDays: 3653, expectedOK: true},
		{desc: "default applies otherwise", logGroup: "/ecs/web", expectedDays: 120, expectedOK: true},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			days, ok := policy.DaysFor(test.logGroup)
			require.Equal(t, test.expectedOK, ok)
			require.Equal(t, test.expectedDays, days)
		})
	}

	t.Run("no default leaves unmatched groups alone", func(t *testing.T) {
		_, ok := SingleRulePolicy("lambda", 7).DaysFor("/ecs/web")
		require.False(t, ok)
	})

	t.Run("empty filter matches everything", func(t *testing.T) {
		days, ok := SingleRulePolicy("", 30).DaysFor("/ecs/web")
		require.True(t, ok)
		require.Equal(t, int32(30), days)
	})
}

func TestLoadPolicy(t *testing.T) {
	tests := []struct {
		desc           string
		contents       string
		expectedPolicy *Policy
		shouldError    bool
	}{
		{
			desc: "valid policy",
			contents: `
default_days: 120
rules:
  - filter: /aws/lambda/
    days: 14
`,
			expectedPolicy: &Policy{
				DefaultDays: 120,
				Rules:       []Rule{{Filter: "/aws/lambda/", Days: 14}},
			},
		},
		{
			desc:        "invalid rule retention",
			contents:    "rules:\n  - filter: x\n    days: 13\n",
			shouldError: true,
		},
		{
			desc:        "invalid default retention",
			contents:    "default_days: 1000\n",
			shouldError: true,
		},
		{
			desc:        "not YAML",
			contents:    "rules: [",
			shouldError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "retention.yaml")
			require.NoError(t, os.WriteFile(path, []byte(test.contents), 0o600))

			policy, err := LoadPolicy(path)
			if test.shouldError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expectedPolicy, policy)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		require.True(t, trace.IsNotFound(err))
	})
}
