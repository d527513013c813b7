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
	"slices"
	"strings"

	"github.com/gravitational/trace"
	"gopkg.in/yaml.v3"
)

// DefaultRetentionDays is used by expire when no days or policy file are given.
const DefaultRetentionDays = 120

// retentionValues are the only retention periods CloudWatch Logs accepts.
var retentionValues = []int32{1, 3, 5, 7, 14, 30, 60, 90, 120, 150, 180, 365, 400, 545, 731, 1096, 1827, 2192, 2557, 2922, 3288, 3653}

// IsValidRetention reports whether CloudWatch Logs accepts days as a retention period.
func IsValidRetention(days int32) bool {
	return slices.Contains(retentionValues, days)
}

// Policy decides the retention period for each log group.
type Policy struct {
	// DefaultDays applies to groups no rule matches. Zero leaves those groups untouched.
	DefaultDays int32  `yaml:"default_days"`
	Rules       []Rule `yaml:"rules"`
}

// Rule sets the retention of every log group whose name contains Filter.
// An empty filter matches every group.
type Rule struct {
	Filter string `yaml:"filter"`
	Days   int32  `yaml:"days"`
}

// SingleRulePolicy applies days to every group whose name contains filter.
func SingleRulePolicy(filter string, days int32) *Policy {
	return &Policy{
		Rules: []Rule{{Filter: filter, Days: days}},
	}
}

// LoadPolicy reads a YAML policy file.
func LoadPolicy(path string) (*Policy, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}

	var policy Policy
	if err := yaml.Unmarshal(contents, &policy); err != nil {
		return nil, trace.Wrap(err, "failed to parse retention policy %q", path)
	}

	if err := policy.Check(); err != nil {
		return nil, trace.Wrap(err, "invalid retention policy %q", path)
	}
	return &policy, nil
}

// Check validates every retention period in the policy.
func (p *Policy) Check() error {
	if p.DefaultDays != 0 && !IsValidRetention(p.DefaultDays) {
		return trace.BadParameter("default_days %d is not a retention period CloudWatch Logs accepts", p.DefaultDays)
	}
	for i, rule := range p.Rules {
		if !IsValidRetention(rule.Days) {
			return trace.BadParameter("rule %d (filter %q): %d days is not a retention period CloudWatch Logs accepts", i, rule.Filter, rule.Days)
		}
	}
	return nil
}

// DaysFor returns the retention for the named group. The first matching rule wins.
func (p *Policy) DaysFor(logGroupName string) (int32, bool) {
	for _, rule := range p.Rules {
		if strings.Contains(logGroupName, rule.Filter) {
			return rule.Days, true
		}
	}
	if p.DefaultDays != 0 {
		return p.DefaultDays, true
	}
	return 0, false
}
