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

package task

import (
	"errors"
	"time"
)

var (
	// ErrGone is returned when a process exited between listing and fetching.
	ErrGone = errors.New("process is gone")
	// ErrAccessDenied is returned when the process attributes can't be read.
	ErrAccessDenied = errors.New("access denied")
)

// Task stores basic information about a specific system process,
// as seen during one enumeration pass.
type Task struct {
	Pid      int32
	Name     string
	Exe      string // Empty if the path couldn't be read.
	Cmdline  string
	Username string
	CPU      float64 // percent
	Memory   float64 // percent
	Created  time.Time
	// Hidden is only set when window enumeration is available.
	Hidden     bool
	Suspicious bool
	Findings   []string
}

// Source supplies the running processes of the system.
type Source interface {
	Pids() ([]int32, error)
	// Fetch returns ErrGone or ErrAccessDenied for processes
	// that can't be inspected.
	Fetch(pid int32) (*Task, error)
	Terminate(pid int32) error
}

// Windows reports which processes own at least one visible
// top-level window.
type Windows interface {
	VisiblePids() (map[int32]bool, error)
}
