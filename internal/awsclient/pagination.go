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

package awsclient

import "github.com/gravitational/trace"

// GetAllWithPagination repeatedly calls `action` until the returned `nextToken` is nil or empty,
// and accumulates the results. Useful for AWS API calls whose results may be paginated, whether
// the service calls the token a marker or a next token.
func GetAllWithPagination[T any](action func(previousToken *string) (nextToken *string, results []T, err error)) ([]T, error) {
	var previousToken *string
	var results []T
	for {
		nextToken, newResults, err := action(previousToken)
		if err != nil {
			return results, trace.Wrap(err, "failed to get the next set of results")
		}

		results = append(results, newResults...)
		// An empty token also marks the last page
		if nextToken == nil || *nextToken == "" {
			return results, nil
		}
		previousToken = nextToken
	}
}
