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
	"path/filepath"

	"github.com/0xN3utr0n/Sintax/config"
	"github.com/0xN3utr0n/Sintax/logger"
	"github.com/0xN3utr0n/Sintax/quarantine"
	"github.com/0xN3utr0n/Sintax/rulengine"
	"github.com/0xN3utr0n/Sintax/rulengine/database"
	"github.com/0xN3utr0n/Sintax/rulengine/task"
	"github.com/0xN3utr0n/Sintax/rulengine/threat"
	"github.com/0xN3utr0n/Sintax/scanner"
	"github.com/spf13/afero"
)

// engine wires the detection and quarantine components together.
type engine struct {
	monitor *rulengine.Monitor
	scanner *scanner.Scanner
	manager *quarantine.Manager
	journal *database.Journal
	backup  string
}

func newEngine() (*engine, error) {
	return buildEngine(cfg, log)
}

func buildEngine(c config.Config, log *logger.Logger) (*engine, error) {
	src, err := task.NewSystem()
	if err != nil {
		return nil, err
	}

	// The journal is optional
	journal, err := database.Open(c.JournalFile)
	if err != nil {
		log.WarnS(fmt.Sprintf("Journal disabled: %s", err), "None")
		journal = nil
	}

	lock, err := filepath.Abs(c.LockFile)
	if err != nil {
		return nil, err
	}

	fs := afero.NewOsFs()
	reg := scanner.NewRegistry()
	cls := threat.New(c.Rules)
	scan := scanner.New(reg, fs, cls, c.Locations, log)
	store := quarantine.NewStore(fs, c.BackupFile, lock)

	return &engine{
		monitor: rulengine.NewMonitor(src, task.NewWindows(), cls,
			rulengine.WithLogger(log), rulengine.WithJournal(journal)),
		scanner: scan,
		manager: quarantine.New(scan, reg, fs, store, c.Locations,
			quarantine.WithLogger(log), quarantine.WithJournal(journal)),
		journal: journal,
		backup:  store.Path(),
	}, nil
}

func (e *engine) Close() {
	if err := e.journal.Close(); err != nil {
		log.ErrorS(err, "None")
	}
}
