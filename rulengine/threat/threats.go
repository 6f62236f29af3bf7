// Copyright (C) 2020-2021,  0xN3utr0n

// Sintax is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Sintax is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.

// You should have received a copy of the GNU General Public License
// along with Sintax. If not, see <http://www.gnu.org/licenses/>.

package threat

import (
	"strings"

	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
	"github.com/0xN3utr0n/Sintax/rulengine/task"
)

const (
	// Danger levels
	Benign   = iota
	Low      = iota
	Moderate = iota + 1
	High     = iota + 2
	Extreme  = iota + 2
)

func (c *Classifier) isIdle(t *task.Task) bool {
	if t.Pid == 0 {
		return true
	}

	name := strings.ToLower(t.Name)
	for _, idle := range c.rules.IdleNames {
		if name == idle {
			return true
		}
	}

	return false
}

func (c *Classifier) detectMiner(t *task.Task) bool {
	return containsAny(strings.ToLower(t.Name), c.rules.MinerNames) ||
		containsAny(strings.ToLower(t.Exe), c.rules.MinerNames)
}

// An empty image path is never a system path.
func (c *Classifier) detectSpoofing(t *task.Task) bool {
	if !containsAny(strings.ToLower(t.Name), c.rules.SpoofedNames) {
		return false
	}

	return !containsAny(strings.ToLower(t.Exe), c.rules.SystemDirs)
}

func (c *Classifier) detectSuspiciousPath(t *task.Task) bool {
	return containsAny(strings.ToLower(t.Exe), c.rules.SuspiciousDirs)
}

// Hidden is never set without window enumeration, so the rule
// can't fire on platforms lacking it.
func (c *Classifier) detectHiddenHog(t *task.Task) bool {
	if !t.Hidden {
		return false
	}

	return t.CPU > c.rules.CPUThreshold || t.Memory > c.rules.MemoryThreshold
}

func (c *Classifier) detectTempAutostart(e *autorun.Entry) bool {
	return containsAny(strings.ToLower(e.Path), c.rules.TempFragments)
}

func (c *Classifier) detectGenericAutostart(e *autorun.Entry) bool {
	if !containsAny(strings.ToLower(e.Name), c.rules.Keywords) {
		return false
	}

	return !containsAny(strings.ToLower(e.Path), c.rules.TrustedDirs)
}

// containsAny expects s and every fragment to be lower case already.
func containsAny(s string, fragments []string) bool {
	if s == "" {
		return false
	}

	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}

	return false
}
