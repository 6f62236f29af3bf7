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
	"os"

	"github.com/0xN3utr0n/Sintax/config"
	"github.com/0xN3utr0n/Sintax/logger"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	cfgFile string
	debug   bool
	stdout  bool

	cfg config.Config
	log = logger.Nop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sintax",
	Short: "Host threat triage and reversible startup quarantine",
	Long: `sintax lists running processes and autostart entries, flags the
suspicious ones and can disable flagged autostart entries with a
backup that allows restoring them later.

Run without a subcommand for the interactive menu.`,
	Version:      version,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		return runMenu(e, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func Execute() {
	err := rootCmd.Execute()
	log.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Show debug messages (very verbose).")
	rootCmd.PersistentFlags().BoolVarP(&stdout, "stdout", "s", false, "Mirror all log output to stdout.")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	c, err := config.Load(cfgFile)
	cobra.CheckErr(err)

	c.Debug = c.Debug || debug
	c.Stdout = c.Stdout || stdout
	cfg = c

	logger.SetDebug(cfg.Debug)

	l, err := logger.New(cfg.LogFile, cfg.Stdout)
	cobra.CheckErr(err)
	log = l

	if !isElevated() {
		log.WarnS("Not running with administrator privileges, some processes and locations will be skipped", "None")
	}
}
