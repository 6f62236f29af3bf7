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

	"github.com/spf13/cobra"
)

var assumeYes bool

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Back up and disable every suspicious autostart entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		return runFreeze(e, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), assumeYes)
	},
}

func init() {
	freezeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Don't ask for confirmation.")
	rootCmd.AddCommand(freezeCmd)
}

func runFreeze(e *engine, in *bufio.Reader, out io.Writer, yes bool) error {
	banner(out, "EMERGENCY STARTUP FREEZE", "!")

	if !yes && !confirm(in, out, "\nThis disables every suspicious autostart program.\nContinue?") {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	res, err := e.manager.Freeze()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nDisabled entries: %d\n", res.Count())

	if len(res.Items) > 0 {
		fmt.Fprintln(out, "\nQuarantined entries:")
		printItems(out, res.Items)
		fmt.Fprintf(out, "\nBackup saved to: %s\n", e.backup)
	}

	return nil
}
