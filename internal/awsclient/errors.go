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

import (
	"errors"

	logsTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	glacierTypes "github.com/aws/aws-sdk-go-v2/service/glacier/types"
	"github.com/aws/smithy-go"
	"github.com/gravitational/trace"
)

// ResourceNotFoundErrorCode is the error code both Glacier and CloudWatch Logs
// return for a missing vault, archive, job or log group.
const ResourceNotFoundErrorCode = "ResourceNotFoundException"

// IsNotFound reports whether err says the addressed resource does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var glacierNotFound *glacierTypes.ResourceNotFoundException
	if errors.As(err, &glacierNotFound) {
		return true
	}

	var logsNotFound *logsTypes.ResourceNotFoundException
	if errors.As(err, &logsNotFound) {
		return true
	}

	var apiError smithy.APIError
	if errors.As(err, &apiError) {
		return apiError.ErrorCode() == ResourceNotFoundErrorCode
	}

	return trace.IsNotFound(err)
}
