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

// Package awsclient narrows the AWS SDK clients down to the calls these tools
// make, so that every command can be tested against function-field mocks.
package awsclient

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/glacier"
)

// CurrentAccount is the Glacier account ID meaning "the account that owns the credentials".
const CurrentAccount = "-"

// region Glacier API
type GlacierAPI interface {
	ListVaults(ctx context.Context, params *glacier.ListVaultsInput, optFns ...func(*glacier.Options)) (*glacier.ListVaultsOutput, error)
	ListJobs(ctx context.Context, params *glacier.ListJobsInput, optFns ...func(*glacier.Options)) (*glacier.ListJobsOutput, error)
	InitiateJob(ctx context.Context, params *glacier.InitiateJobInput, optFns ...func(*glacier.Options)) (*glacier.InitiateJobOutput, error)
	GetJobOutput(ctx context.Context, params *glacier.GetJobOutputInput, optFns ...func(*glacier.Options)) (*glacier.GetJobOutputOutput, error)
	DeleteArchive(ctx context.Context, params *glacier.DeleteArchiveInput, optFns ...func(*glacier.Options)) (*glacier.DeleteArchiveOutput, error)
	DeleteVault(ctx context.Context, params *glacier.DeleteVaultInput, optFns ...func(*glacier.Options)) (*glacier.DeleteVaultOutput, error)
	ListTagsForVault(ctx context.Context, params *glacier.ListTagsForVaultInput, optFns ...func(*glacier.Options)) (*glacier.ListTagsForVaultOutput, error)
	AddTagsToVault(ctx context.Context, params *glacier.AddTagsToVaultInput, optFns ...func(*glacier.Options)) (*glacier.AddTagsToVaultOutput, error)
}

type AWSGlacierAPI struct {
	cfg *aws.Config
	*glacier.Client
}

func NewGlacierAPI(cfg *aws.Config) GlacierAPI {
	return &AWSGlacierAPI{
		cfg:    cfg,
		Client: glacier.NewFromConfig(*cfg),
	}
}

// endregion

// region EC2 API
type EC2API interface {
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
}

type AWSEC2API struct {
	cfg *aws.Config
	*ec2.Client
}

func NewEC2API(cfg *aws.Config) EC2API {
	return &AWSEC2API{
		cfg:    cfg,
		Client: ec2.NewFromConfig(*cfg),
	}
}

// endregion

// region CloudWatch Logs API
type CloudWatchLogsAPI interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	PutRetentionPolicy(ctx context.Context, params *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
}

type AWSCloudWatchLogsAPI struct {
	cfg *aws.Config
	*cloudwatchlogs.Client
}

func NewCloudWatchLogsAPI(cfg *aws.Config) CloudWatchLogsAPI {
	return &AWSCloudWatchLogsAPI{
		cfg:    cfg,
		Client: cloudwatchlogs.NewFromConfig(*cfg),
	}
}

// endregion
