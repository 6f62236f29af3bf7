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

	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
	"github.com/spf13/cobra"
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Run one check and offer to freeze if threats are found",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		return runAuto(e, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(autoCmd)
}

func runAuto(e *engine, in *bufio.Reader, out io.Writer) error {
	tasks, err := e.monitor.Enumerate()
	if err != nil {
		return err
	}

	var entries []autorun.Entry
	for _, entry := range e.scanner.Enumerate() {
		if entry.Suspicious {
			entries = append(entries, entry)
		}
	}

	flagged := suspicious(tasks)
	if len(flagged) == 0 && len(entries) == 0 {
		fmt.Fprintln(out, "\nNo threats detected")
		return nil
	}

	fmt.Fprintf(out, "\nThreats found: %d\n", len(flagged)+len(entries))
	for _, t := range flagged {
		fmt.Fprintf(out, "  • %s (PID: %d)\n", t.Name, t.Pid)
	}
	printEntries(out, entries)

	if !confirm(in, out, "\nRun the emergency startup freeze?") {
		return nil
	}

	res, err := e.manager.Freeze()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Disabled entries: %d\n", res.Count())
	return nil
}
