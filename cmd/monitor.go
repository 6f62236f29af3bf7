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
	"context"
	"fmt"
	"io"
	"time"

	"github.com/0xN3utr0n/Sintax/logger"
	"github.com/0xN3utr0n/Sintax/rulengine/task"
	"github.com/spf13/cobra"
)

var watch bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "List running processes and flag the suspicious ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, stop := logger.KillHandler(cmd.Context())
		defer stop()

		return runMonitor(ctx, e, cmd.OutOrStdout(), watch, cfg.Interval)
	},
}

func init() {
	monitorCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling until interrupted.")
	rootCmd.AddCommand(monitorCmd)
}

// runMonitor prints one full report and, when watching, a short
// summary every interval until ctx is done.
func runMonitor(ctx context.Context, e *engine, out io.Writer, watch bool, interval time.Duration) error {
	banner(out, "PROCESS MONITOR", "=")

	if !watch {
		tasks, err := e.monitor.Enumerate()
		if err != nil {
			return err
		}
		printProcesses(out, tasks)
		return nil
	}

	first := true
	return e.monitor.Watch(ctx, interval, func(tasks []*task.Task) {
		if first {
			printProcesses(out, tasks)
			fmt.Fprintln(out, "\nPress Ctrl+C to stop monitoring...")
			first = false
			return
		}
		printSummary(out, time.Now(), tasks)
	})
}
