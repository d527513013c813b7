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
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/glacier"
)

// region Glacier API
type MockGlacierAPI struct {
	MockListVaults       func(ctx context.Context, params *glacier.ListVaultsInput, optFns ...func(*glacier.Options)) (*glacier.ListVaultsOutput, error)
	MockListJobs         func(ctx context.Context, params *glacier.ListJobsInput, optFns ...func(*glacier.Options)) (*glacier.ListJobsOutput, error)
	MockInitiateJob      func(ctx context.Context, params *glacier.InitiateJobInput, optFns ...func(*glacier.Options)) (*glacier.InitiateJobOutput, error)
	MockGetJobOutput     func(ctx context.Context, params *glacier.GetJobOutputInput, optFns ...func(*glacier.Options)) (*glacier.GetJobOutputOutput, error)
	MockDeleteArchive    func(ctx context.Context, params *glacier.DeleteArchiveInput, optFns ...func(*glacier.Options)) (*glacier.DeleteArchiveOutput, error)
	MockDeleteVault      func(ctx context.Context, params *glacier.DeleteVaultInput, optFns ...func(*glacier.Options)) (*glacier.DeleteVaultOutput, error)
	MockListTagsForVault func(ctx context.Context, params *glacier.ListTagsForVaultInput, optFns ...func(*glacier.Options)) (*glacier.ListTagsForVaultOutput, error)
	MockAddTagsToVault   func(ctx context.Context, params *glacier.AddTagsToVaultInput, optFns ...func(*glacier.Options)) (*glacier.AddTagsToVaultOutput, error)
}

var _ GlacierAPI = &MockGlacierAPI{}

func (mga *MockGlacierAPI) ListVaults(ctx context.Context, params *glacier.ListVaultsInput, optFns ...func(*glacier.Options)) (*glacier.ListVaultsOutput, error) {
	return runMock(mga.MockListVaults, ctx, params, optFns)
}

func (mga *MockGlacierAPI) ListJobs(ctx context.Context, params *glacier.ListJobsInput, optFns ...func(*glacier.Options)) (*glacier.ListJobsOutput, error) {
	return runMock(mga.MockListJobs, ctx, params, optFns)
}

func (mga *MockGlacierAPI) InitiateJob(ctx context.Context, params *glacier.InitiateJobInput, optFns ...func(*glacier.Options)) (*glacier.InitiateJobOutput, error) {
	return runMock(mga.MockInitiateJob, ctx, params, optFns)
}

func (mga *MockGlacierAPI) GetJobOutput(ctx context.Context, params *glacier.GetJobOutputInput, optFns ...func(*glacier.Options)) (*glacier.GetJobOutputOutput, error) {
	return runMock(mga.MockGetJobOutput, ctx, params, optFns)
}

func (mga *MockGlacierAPI) DeleteArchive(ctx context.Context, params *glacier.DeleteArchiveInput, optFns ...func(*glacier.Options)) (*glacier.DeleteArchiveOutput, error) {
	return runMock(mga.MockDeleteArchive, ctx, params, optFns)
}

func (mga *MockGlacierAPI) DeleteVault(ctx context.Context, params *glacier.DeleteVaultInput, optFns ...func(*glacier.Options)) (*glacier.DeleteVaultOutput, error) {
	return runMock(mga.MockDeleteVault, ctx, params, optFns)
}

func (mga *MockGlacierAPI) ListTagsForVault(ctx context.Context, params *glacier.ListTagsForVaultInput, optFns ...func(*glacier.Options)) (*glacier.ListTagsForVaultOutput, error) {
	return runMock(mga.MockListTagsForVault, ctx, params, optFns)
}

func (mga *MockGlacierAPI) AddTagsToVault(ctx context.Context, params *glacier.AddTagsToVaultInput, optFns ...func(*glacier.Options)) (*glacier.AddTagsToVaultOutput, error) {
	return runMock(mga.MockAddTagsToVault, ctx, params, optFns)
}

// endregion

// region EC2 API
type MockEC2API struct {
	MockDescribeImages func(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
}

var _ EC2API = &MockEC2API{}

func (mea *MockEC2API) DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	return runMock(mea.MockDescribeImages, ctx, params, optFns)
}

// endregion

// region CloudWatch Logs API
type MockCloudWatchLogsAPI struct {
	MockDescribeLogGroups  func(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	MockPutRetentionPolicy func(ctx context.Context, params *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
}

var _ CloudWatchLogsAPI = &MockCloudWatchLogsAPI{}

func (mcl *MockCloudWatchLogsAPI) DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error) {
	return runMock(mcl.MockDescribeLogGroups, ctx, params, optFns)
}

func (mcl *MockCloudWatchLogsAPI) PutRetentionPolicy(ctx context.Context, params *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error) {
	return runMock(mcl.MockPutRetentionPolicy, ctx, params, optFns)
}

// endregion

// Do common error checking for every mock and then run it
func runMock[TParameters, TInvocationOptions, TResult any](mock func(context.Context, TParameters, ...TInvocationOptions) (TResult, error),
	ctx context.Context, params TParameters, optFns []TInvocationOptions) (TResult, error) {
	if mock == nil {
		panic("Mock API function was called but not implemented")
	}
	return mock(ctx, params, optFns...)
}
