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

import "time"

// CooldownWindow is the minimum time between two refreshes, or two deletes, of the same vault.
const CooldownWindow = 24 * time.Hour

// CooldownElapsed reports whether strictly more than [CooldownWindow] separates t from now.
// A timestamp exactly one window old has not cooled down yet.
func CooldownElapsed(now, t time.Time) bool {
	return now.Sub(t) > CooldownWindow
}
