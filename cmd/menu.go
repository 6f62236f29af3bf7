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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/0xN3utr0n/Sintax/logger"
	"github.com/0xN3utr0n/Sintax/quarantine"
)

// runMenu shows the interactive menu until the operator exits or
// input runs out. Errors of a single action are reported and the
// menu continues.
func runMenu(e *engine, r io.Reader, out io.Writer) error {
	in := bufio.NewReader(r)

	for {
		fmt.Fprintf(out, "\n%s\n    Sintax v-%s\n%s\n", strings.Repeat("═", 50), version, strings.Repeat("═", 50))
		fmt.Fprintln(out, "1. Process monitor")
		fmt.Fprintln(out, "2. Emergency startup freeze")
		fmt.Fprintln(out, "3. Kill suspicious processes")
		fmt.Fprintln(out, "4. System statistics")
		fmt.Fprintln(out, "5. Restore startup")
		fmt.Fprintln(out, "0. Exit")
		fmt.Fprintln(out, strings.Repeat("═", 50))
		fmt.Fprint(out, "\nChoose an action: ")

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return nil
		}

		var actionErr error
		switch strings.TrimSpace(line) {
		case "1":
			ctx, stop := logger.KillHandler(context.Background())
			actionErr = runMonitor(ctx, e, out, true, cfg.Interval)
			stop()
		case "2":
			actionErr = runFreeze(e, in, out, false)
		case "3":
			actionErr = runKill(e, out)
		case "4":
			actionErr = runStats(out)
		case "5":
			actionErr = runRestore(e, out)
		case "0":
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		default:
			fmt.Fprintln(out, "Unknown option")
			continue
		}

		if actionErr != nil {
			reportError(out, actionErr)
		}

		fmt.Fprint(out, "\nPress Enter to continue...")
		if _, err := in.ReadString('\n'); err != nil {
			return nil
		}
	}
}

func reportError(out io.Writer, err error) {
	log.ErrorS(err, "None")

	switch {
	case errors.Is(err, quarantine.ErrBusy):
		fmt.Fprintln(out, "\nAnother freeze or restore is running, try again later.")
	case errors.Is(err, quarantine.ErrCorruptBackup):
		fmt.Fprintf(out, "\nThe backup file can't be read: %s\n", err)
	default:
		fmt.Fprintf(out, "\nError: %s\n", err)
	}
}
