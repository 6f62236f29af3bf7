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
	"time"

	"github.com/0xN3utr0n/Sintax/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show CPU, memory, disk and temperature readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(out io.Writer) error {
	s, err := stats.Collect(time.Second)
	if err != nil {
		return err
	}

	printStats(out, s)
	return nil
}

func printStats(out io.Writer, s *stats.Snapshot) {
	banner(out, "SYSTEM STATISTICS", "=")

	fmt.Fprintf(out, "CPU: %.1f%%\n", s.CPU)
	fmt.Fprintf(out, "Memory: %.1f%% (%dGB / %dGB)\n", s.MemoryPercent, stats.GiB(s.MemoryUsed), stats.GiB(s.MemoryTotal))
	fmt.Fprintf(out, "Disk %s: %.1f%%\n", s.Disk, s.DiskPercent)

	for _, sensor := range s.Temperatures {
		fmt.Fprintf(out, "Temperature %s: %.1f°C\n", sensor.Name, sensor.Celsius)
	}
}
