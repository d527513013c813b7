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

// Package ami looks up machine images by name.
package ami

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/gravitational/trace"
	"github.com/relvacode/iso8601"

	"github.com/Cloudzero/aws-tools/internal/awsclient"
	"github.com/Cloudzero/aws-tools/internal/logging"
)

const (
	DefaultNamePrefix = "amzn-ami-hvm*"
	DefaultType       = "gp2"
	DefaultOwner      = "amazon"
)

// ImageTypes are the accepted image name suffixes.
var ImageTypes = []string{"gp2", "ebs", "s3"}

// Query selects images by owner and by name.
type Query struct {
	// NamePrefix is an EC2 name filter pattern; Type is appended to it.
	NamePrefix string
	Type       string
	Owners     []string
}

// NameFilter is the value of the EC2 "name" filter for the query.
func (q Query) NameFilter() string {
	return q.NamePrefix + q.Type
}

// Image is a machine image.
type Image struct {
	ID          string
	Name        string
	Description string
	// CreationDate is zero if EC2 returned a date that could not be parsed.
	CreationDate time.Time
}

type Finder struct {
	client awsclient.EC2API
}

func NewFinder(client awsclient.EC2API) *Finder {
	return &Finder{client: client}
}

// Find returns every image matching the query, oldest first.
func (f *Finder) Find(ctx context.Context, query Query) ([]Image, error) {
	if query.NamePrefix == "" {
		query.NamePrefix = DefaultNamePrefix
	}
	if len(query.Owners) == 0 {
		query.Owners = []string{DefaultOwner}
	}

	requestInput := &ec2.DescribeImagesInput{
		Owners: query.Owners,
		Filters: []ec2Types.Filter{
			{
				Name:   aws.String("name"),
				Values: []string{query.NameFilter()},
			},
		},
	}

	ec2Images, err := awsclient.GetAllWithPagination(
		func(previousToken *string) (*string, []ec2Types.Image, error) {
			requestInput.NextToken = previousToken
			results, err := f.client.DescribeImages(ctx, requestInput)
			if err != nil {
				return nil, nil, trace.Wrap(err, "failed to request images")
			}

			return results.NextToken, results.Images, nil
		},
	)
	if err != nil {
		return nil, trace.Wrap(err, "failed to find images named %q", query.NameFilter())
	}

	logger := logging.FromCtx(ctx)
	images := make([]Image, 0, len(ec2Images))
	for _, ec2Image := range ec2Images {
		image := Image{
			ID:          aws.ToString(ec2Image.ImageId),
			Name:        aws.ToString(ec2Image.Name),
			Description: aws.ToString(ec2Image.Description),
		}

		if creationDate := aws.ToString(ec2Image.CreationDate); creationDate != "" {
			parsed, err := iso8601.ParseString(creationDate)
			if err != nil {
				logger.DebugContext(ctx, "Ignoring unparseable image creation date", "image", image.ID, "date", creationDate, "error", err)
			} else {
				image.CreationDate = parsed.UTC()
			}
		}

		images = append(images, image)
	}

	sort.SliceStable(images, func(i, j int) bool {
		return images[i].CreationDate.Before(images[j].CreationDate)
	})
	return images, nil
}

// Latest returns the newest of the images, which must be sorted oldest first.
func Latest(images []Image) (Image, error) {
	if len(images) == 0 {
		return Image{}, trace.NotFound("no images found")
	}
	return images[len(images)-1], nil
}

// PrintImages writes one image ID per line, or with details one
// "created | id | name | description" line per image.
func PrintImages(w io.Writer, images []Image, details bool) {
	for _, image := range images {
		if !details {
			fmt.Fprintln(w, image.ID)
			continue
		}

		created := "-"
		if !image.CreationDate.IsZero() {
			created = image.CreationDate.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s | %s | %s | %s\n", created, image.ID, image.Name, image.Description)
	}
}
