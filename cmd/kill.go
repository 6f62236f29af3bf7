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
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var killCmd = &cobra.Command{
	Use:   "kill",
	Short: "Terminate every suspicious process",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		return runKill(e, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(killCmd)
}

func runKill(e *engine, out io.Writer) error {
	report, err := e.monitor.TerminateFlagged()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTerminated processes: %d\n", len(report.Issued))
	for _, t := range report.Issued {
		fmt.Fprintf(out, "  • %s (PID: %d)\n", t.Name, t.Pid)
	}

	if len(report.Failed) > 0 {
		fmt.Fprintf(out, "\nFailed: %d\n", len(report.Failed))
		for _, f := range report.Failed {
			fmt.Fprintf(out, "  • %s (PID: %d): %s\n", f.Task.Name, f.Task.Pid, f.Err)
		}
	}

	return nil
}
