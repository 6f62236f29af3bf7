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

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Re-enable the autostart entries of the last freeze",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		return runRestore(e, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(e *engine, out io.Writer) error {
	res, err := e.manager.Restore()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nRestored entries: %d\n", res.Count())
	if len(res.Items) > 0 {
		printItems(out, res.Items)
	}

	return nil
}
