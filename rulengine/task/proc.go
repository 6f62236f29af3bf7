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
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/shirou/gopsutil/v3/process"
)

const baseNumHandles = 1024

// System is the gopsutil backed Source. Process handles are kept
// between passes, since the cpu usage is measured from the last call.
type System struct {
	handles *lru.Cache
}

type handle struct {
	proc    *process.Process
	created int64
}

// NewSystem creates a Source reading the live process table.
func NewSystem() (*System, error) {
	cache, err := lru.New(baseNumHandles)
	if err != nil {
		return nil, err
	}
	return &System{handles: cache}, nil
}

func (s *System) Pids() ([]int32, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	return pids, nil
}

// Fetch Creates a new task object using the corresponding process information.
// Only the name is mandatory, the rest is filled on a best-effort basis.
func (s *System) Fetch(pid int32) (*Task, error) {
	if isDead(pid) {
		s.handles.Remove(pid)
		return nil, ErrGone
	}

	p, err := s.handle(pid)
	if err != nil {
		return nil, err
	}

	name, err := p.Name()
	if err != nil {
		return nil, translate(err)
	}

	t := &Task{Pid: pid, Name: name}
	t.Exe, _ = p.Exe()
	t.Cmdline, _ = p.Cmdline()
	t.Username, _ = p.Username()
	t.CPU, _ = p.Percent(0)

	if mem, err := p.MemoryPercent(); err == nil {
		t.Memory = float64(mem)
	}
	if ms, err := p.CreateTime(); err == nil {
		t.Created = time.UnixMilli(ms)
	}

	return t, nil
}

// Terminate asks the process to exit. It doesn't wait for it.
func (s *System) Terminate(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return translate(err)
	}

	if err := p.Terminate(); err != nil {
		return translate(err)
	}

	s.handles.Remove(pid)
	return nil
}

// handle returns the cached process handle, unless the pid has been
// recycled by a different process in the meantime.
func (s *System) handle(pid int32) (*process.Process, error) {
	fresh, err := process.NewProcess(pid)
	if err != nil {
		return nil, translate(err)
	}

	created, err := fresh.CreateTime()
	if err != nil {
		created = 0
	}

	if v, ok := s.handles.Get(pid); ok {
		if h := v.(handle); h.created == created {
			return h.proc, nil
		}
	}

	s.handles.Add(pid, handle{proc: fresh, created: created})
	return fresh, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, process.ErrorProcessNotRunning), errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrGone, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return err
	}
}
