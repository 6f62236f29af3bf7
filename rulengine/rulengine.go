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

// Package rulengine runs the heuristic rules over the live process table.
package rulengine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/0xN3utr0n/Sintax/logger"
	"github.com/0xN3utr0n/Sintax/rulengine/database"
	"github.com/0xN3utr0n/Sintax/rulengine/task"
	"github.com/0xN3utr0n/Sintax/rulengine/threat"
)

const (
	baseNumTasks = 500 // Base number of tasks
)

// Monitor enumerates processes and keeps track of the flagged ones.
type Monitor struct {
	src     task.Source
	win     task.Windows
	cls     *threat.Classifier
	threats *task.List
	log     *logger.Logger
	journal *database.Journal
	self    int32
}

type Option func(*Monitor)

func WithLogger(log *logger.Logger) Option {
	return func(m *Monitor) { m.log = log }
}

// WithJournal records the first sighting of every flagged process.
func WithJournal(j *database.Journal) Option {
	return func(m *Monitor) { m.journal = j }
}

// NewMonitor returns a Monitor. win may be nil when window
// enumeration isn't available, in which case no task is ever Hidden.
func NewMonitor(src task.Source, win task.Windows, cls *threat.Classifier, opts ...Option) *Monitor {
	m := &Monitor{
		src:     src,
		win:     win,
		cls:     cls,
		threats: task.NewList(baseNumTasks),
		log:     logger.Nop(),
		self:    int32(os.Getpid()),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Enumerate takes a fresh snapshot of the process table and classifies
// every process in it. Processes that exit or can't be read are left out.
// It only fails when the process table itself can't be listed.
func (m *Monitor) Enumerate() ([]*task.Task, error) {
	pids, err := m.src.Pids()
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	visible := m.visiblePids()

	tasks := make([]*task.Task, 0, len(pids))
	for _, pid := range pids {
		current, err := m.src.Fetch(pid)
		if err != nil {
			m.log.Debug("RuleEngine").Int32("Pid", pid).Err(err).Msg("Skipping process")
			continue
		}

		if visible != nil {
			current.Hidden = !visible[current.Pid]
		}

		if findings := m.cls.ClassifyProcess(current); len(findings) > 0 {
			m.flag(current, findings)
		} else {
			m.forget(current)
		}

		tasks = append(tasks, current)
	}

	m.log.Debug("RuleEngine").Int("Processes", len(tasks)).Int("Threats", m.threats.Len()).Msg("Enumeration done")

	return tasks, nil
}

// Threats returns every flagged process seen so far, ordered by pid.
// A reused pid only keeps its latest sighting.
func (m *Monitor) Threats() []*task.Task {
	return m.threats.Sorted()
}

// KillFailure is a terminate request that could not be issued.
type KillFailure struct {
	Task *task.Task
	Err  error
}

// KillReport lists the flagged processes a terminate request was
// issued for, and the ones where issuing it failed.
type KillReport struct {
	Issued []*task.Task
	Failed []KillFailure
}

// TerminateFlagged re-enumerates and requests termination of every
// suspicious process, once. Our own process is never terminated, and
// neither is a process flagged only for spoofing a system name whose
// image path could not be read.
func (m *Monitor) TerminateFlagged() (*KillReport, error) {
	tasks, err := m.Enumerate()
	if err != nil {
		return nil, err
	}

	report := &KillReport{}
	for _, t := range tasks {
		if !t.Suspicious || t.Pid == m.self {
			continue
		}

		if unverifiedSpoof(t) {
			m.log.Debug("RuleEngine").Int32("Pid", t.Pid).Str("Comm", t.Name).Msg("Not terminating, image path unknown")
			continue
		}

		if err := m.src.Terminate(t.Pid); err != nil {
			m.log.Warn("RuleEngine").Int32("Pid", t.Pid).Str("Comm", t.Name).Err(err).Msg("Terminate failed")
			report.Failed = append(report.Failed, KillFailure{Task: t, Err: err})
			continue
		}

		m.log.Info("RuleEngine").Int32("Pid", t.Pid).Str("Comm", t.Name).Msg("Process terminated")
		report.Issued = append(report.Issued, t)
	}

	return report, nil
}

// Watch enumerates every interval until ctx is done, passing each
// snapshot to fn. A pass that already started always completes.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration, fn func([]*task.Task)) error {
	if interval <= 0 {
		return fmt.Errorf("invalid polling interval %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return nil
		}

		tasks, err := m.Enumerate()
		if err != nil {
			return err
		}

		if fn != nil {
			fn(tasks)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// visiblePids returns nil when window information is unavailable.
func (m *Monitor) visiblePids() map[int32]bool {
	if m.win == nil {
		return nil
	}

	visible, err := m.win.VisiblePids()
	if err != nil {
		m.log.WarnS("Window enumeration failed: "+err.Error(), "RuleEngine")
		return nil
	}

	return visible
}

// flag stores the task in the threat list and reports it, unless the
// same process was already reported.
func (m *Monitor) flag(current *task.Task, findings []threat.Finding) {
	prev := m.threats.Get(current.Pid)
	m.threats.Insert(current.Pid, current)

	if prev != nil && prev.Name == current.Name && prev.Created.Equal(current.Created) {
		return
	}

	threat.LogProcess(m.log, current, findings)

	err := m.journal.InsertSighting(database.Sighting{
		Seen:       time.Now(),
		Pid:        current.Pid,
		Name:       current.Name,
		Exe:        current.Exe,
		Techniques: strings.Join(current.Findings, ","),
		Danger:     threat.Score(findings),
	})
	if err != nil {
		m.log.Error(err, "RuleEngine").Int32("Pid", current.Pid).Msg("Journal write failed")
	}
}

// forget drops a stored threat whose pid now belongs to another,
// benign process.
func (m *Monitor) forget(current *task.Task) {
	prev := m.threats.Get(current.Pid)
	if prev == nil || (prev.Name == current.Name && prev.Created.Equal(current.Created)) {
		return
	}

	m.threats.Delete(current.Pid)
}

// unverifiedSpoof reports a process whose only finding is a system
// name outside the system directory, while its image path is unknown.
// Protected system processes can't be opened without elevation.
func unverifiedSpoof(t *task.Task) bool {
	return t.Exe == "" && len(t.Findings) == 1 && t.Findings[0] == threat.ProcessSpoofing
}
