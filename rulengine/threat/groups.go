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

	"github.com/0xN3utr0n/Sintax/config"
	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
	"github.com/0xN3utr0n/Sintax/rulengine/task"
)

// Finding is a single technique that matched.
type Finding struct {
	Technique string
	Category  string
	Level     int
}

// Description returns the human readable explanation of the technique.
func (f Finding) Description() string {
	return threats[f.Technique].description
}

// IOC returns the kind of indicator the technique points at.
func (f Finding) IOC() string {
	return threats[f.Technique].ioc
}

type processRule struct {
	technique string
	category  string
	level     int
	match     func(*Classifier, *task.Task) bool
}

type entryRule struct {
	technique string
	category  string
	level     int
	match     func(*Classifier, *autorun.Entry) bool
}

// Every rule is evaluated, the order only affects the order of the findings.
var processRules = []processRule{
	{Cryptominer, "Impact", High, (*Classifier).detectMiner},
	{ProcessSpoofing, "Defense Evasion", Moderate, (*Classifier).detectSpoofing},
	{SuspiciousPath, "Execution", Moderate, (*Classifier).detectSuspiciousPath},
	{HiddenResourceHog, "Defense Evasion", Low, (*Classifier).detectHiddenHog},
}

var entryRules = []entryRule{
	{TempAutostart, "Persistence", Moderate, (*Classifier).detectTempAutostart},
	{GenericAutostart, "Persistence", Low, (*Classifier).detectGenericAutostart},
}

// Classifier maps processes and autostart entries to a verdict.
// It keeps its own copy of the rules and never changes after New.
type Classifier struct {
	rules config.Rules
}

// New builds a Classifier from the given rule tables.
func New(rules config.Rules) *Classifier {
	return &Classifier{rules: config.Rules{
		IdleNames:       normalize(rules.IdleNames),
		MinerNames:      normalize(rules.MinerNames),
		SpoofedNames:    normalize(rules.SpoofedNames),
		SystemDirs:      normalize(rules.SystemDirs),
		SuspiciousDirs:  normalize(rules.SuspiciousDirs),
		CPUThreshold:    rules.CPUThreshold,
		MemoryThreshold: rules.MemoryThreshold,
		TempFragments:   normalize(rules.TempFragments),
		Keywords:        normalize(rules.Keywords),
		TrustedDirs:     normalize(rules.TrustedDirs),
	}}
}

// Process returns every technique matched by the task.
// The idle process never matches anything.
func (c *Classifier) Process(t *task.Task) []Finding {
	if c.isIdle(t) {
		return nil
	}

	var findings []Finding
	for _, r := range processRules {
		if r.match(c, t) {
			findings = append(findings, Finding{r.technique, r.category, r.level})
		}
	}

	return findings
}

// Startup returns every technique matched by the autostart entry.
func (c *Classifier) Startup(e *autorun.Entry) []Finding {
	var findings []Finding
	for _, r := range entryRules {
		if r.match(c, e) {
			findings = append(findings, Finding{r.technique, r.category, r.level})
		}
	}

	return findings
}

// ClassifyProcess records the verdict on the task and returns it.
func (c *Classifier) ClassifyProcess(t *task.Task) []Finding {
	findings := c.Process(t)
	t.Suspicious = len(findings) > 0
	t.Findings = techniques(findings)
	return findings
}

// ClassifyEntry records the verdict on the entry and returns it.
func (c *Classifier) ClassifyEntry(e *autorun.Entry) []Finding {
	findings := c.Startup(e)
	e.Suspicious = len(findings) > 0
	e.Findings = techniques(findings)
	return findings
}

// Score returns the highest danger level among the findings.
func Score(findings []Finding) int {
	score := Benign
	for _, f := range findings {
		if f.Level > score {
			score = f.Level
		}
	}
	return score
}

func techniques(findings []Finding) []string {
	if len(findings) == 0 {
		return nil
	}

	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Technique
	}
	return out
}

func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
