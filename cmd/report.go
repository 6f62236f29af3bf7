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

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/0xN3utr0n/Sintax/quarantine"
	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
	"github.com/0xN3utr0n/Sintax/rulengine/task"
)

const (
	width       = 80
	maxThreats  = 10
	maxRecent   = 5
	unknownPath = "unknown"
)

func banner(out io.Writer, title string, fill string) {
	line := strings.Repeat(fill, width)
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(out, "\n%s\n%s%s\n%s\n", line, strings.Repeat(" ", pad), title, line)
}

func suspicious(tasks []*task.Task) []*task.Task {
	var out []*task.Task
	for _, t := range tasks {
		if t.Suspicious {
			out = append(out, t)
		}
	}
	return out
}

func printProcesses(out io.Writer, tasks []*task.Task) {
	flagged := suspicious(tasks)

	fmt.Fprintf(out, "\nTotal processes: %d\n", len(tasks))
	fmt.Fprintf(out, "Suspicious: %d\n", len(flagged))

	if len(flagged) == 0 {
		return
	}

	fmt.Fprintf(out, "\nTHREATS DETECTED:\n%s\n", strings.Repeat("-", width))
	for i, t := range flagged {
		if i == maxThreats {
			fmt.Fprintf(out, "... and %d more\n", len(flagged)-maxThreats)
			break
		}

		exe := t.Exe
		if exe == "" {
			exe = unknownPath
		}

		fmt.Fprintf(out, "├─ %s (PID: %d)\n", t.Name, t.Pid)
		fmt.Fprintf(out, "│  CPU: %.1f%% | Memory: %.1f%%\n", t.CPU, t.Memory)
		fmt.Fprintf(out, "│  Path: %s\n", exe)
		fmt.Fprintf(out, "│  Findings: %s\n", strings.Join(t.Findings, ", "))
		fmt.Fprintf(out, "├%s\n", strings.Repeat("─", width-2))
	}
}

func printSummary(out io.Writer, now time.Time, tasks []*task.Task) {
	flagged := suspicious(tasks)

	fmt.Fprintf(out, "[%s] Active processes: %d | Threats: %d\n",
		now.Format("15:04:05"), len(tasks), len(flagged))

	for i, t := range flagged {
		if i == maxRecent {
			break
		}
		fmt.Fprintf(out, "  • %s (PID: %d)\n", t.Name, t.Pid)
	}
}

func printEntries(out io.Writer, entries []autorun.Entry) {
	for _, e := range entries {
		fmt.Fprintf(out, "  • %s (%s) -> %s [%s]\n", e.Name, e.Location, e.Path, strings.Join(e.Findings, ", "))
	}
}

func printItems(out io.Writer, items []quarantine.ItemResult) {
	for _, item := range items {
		fmt.Fprintf(out, "  • %s (%s): %s", item.Entry.Name, item.Entry.Location, item.Status)
		if item.Err != nil {
			fmt.Fprintf(out, " (%s)", item.Err)
		}
		fmt.Fprintln(out)
	}
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s (y/N): ", question)

	answer, err := in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
