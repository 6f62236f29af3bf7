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

// Package quarantine disables suspicious autostart entries in a way
// that can be undone, and undoes it.
//
// An entry moves from enabled to quarantined on Freeze and back on
// Restore. The backup is written before anything is disabled.
package quarantine

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/0xN3utr0n/Sintax/config"
	"github.com/0xN3utr0n/Sintax/logger"
	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
	"github.com/0xN3utr0n/Sintax/rulengine/database"
	"github.com/0xN3utr0n/Sintax/scanner"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var (
	ErrCorruptBackup = errors.New("backup is unreadable")
	ErrBusy          = errors.New("another freeze or restore is running")
	ErrNotFound      = errors.New("entry not found")
	ErrConflict      = errors.New("target already exists")
)

type Status string

const (
	Succeeded Status = "succeeded"
	Skipped   Status = "skipped"
	Failed    Status = "failed"
)

// ItemResult is the outcome of disabling or enabling one entry.
// Err explains Skipped and Failed outcomes.
type ItemResult struct {
	Entry  autorun.Entry
	Status Status
	Err    error
}

type FreezeResult struct {
	Operation string
	Backup    *Backup
	Items     []ItemResult
}

// Count returns how many entries were disabled.
func (r *FreezeResult) Count() int {
	return count(r.Items)
}

// Entries returns every entry the freeze tried to disable.
func (r *FreezeResult) Entries() []autorun.Entry {
	entries := make([]autorun.Entry, len(r.Items))
	for i, item := range r.Items {
		entries[i] = item.Entry
	}
	return entries
}

type RestoreResult struct {
	Operation string
	Items     []ItemResult
}

// Count returns how many entries were re-enabled by this call.
func (r *RestoreResult) Count() int {
	return count(r.Items)
}

// Enumerator lists the current, classified autostart entries.
type Enumerator interface {
	Enumerate() []autorun.Entry
}

type Manager struct {
	scan    Enumerator
	reg     scanner.Registry
	fs      afero.Fs
	store   *Store
	locs    config.Locations
	log     *logger.Logger
	journal *database.Journal
	now     func() time.Time
}

type Option func(*Manager)

func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithJournal records every item result in the journal.
func WithJournal(j *database.Journal) Option {
	return func(m *Manager) { m.journal = j }
}

func New(scan Enumerator, reg scanner.Registry, fs afero.Fs, store *Store, locs config.Locations, opts ...Option) *Manager {
	m := &Manager{
		scan:  scan,
		reg:   reg,
		fs:    fs,
		store: store,
		locs:  locs,
		log:   logger.Nop(),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Freeze backs up and disables every suspicious autostart entry.
// When nothing is suspicious the previous backup is left alone.
func (m *Manager) Freeze() (*FreezeResult, error) {
	unlock, err := m.store.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	res := &FreezeResult{Operation: uuid.NewString()}

	var suspicious []autorun.Entry
	for _, e := range m.scan.Enumerate() {
		if e.Suspicious {
			suspicious = append(suspicious, e)
		}
	}

	if len(suspicious) == 0 {
		m.log.InfoS("No suspicious autostart entries", "Quarantine")
		return res, nil
	}

	backup := &Backup{
		Operation: res.Operation,
		Timestamp: m.now().Format(time.RFC3339),
		Items:     suspicious,
	}

	if err := m.store.Save(backup); err != nil {
		return nil, fmt.Errorf("saving backup %s: %w", m.store.Path(), err)
	}
	res.Backup = backup

	for _, e := range suspicious {
		item := m.Disable(e)
		res.Items = append(res.Items, item)
		m.record(res.Operation, "freeze", item)
	}

	m.log.InfoS(fmt.Sprintf("%d of %d entries quarantined", res.Count(), len(suspicious)), "Quarantine")

	return res, nil
}

// Restore re-enables every entry of the stored backup. The backup is
// kept, so restoring twice re-enables nothing the second time.
func (m *Manager) Restore() (*RestoreResult, error) {
	unlock, err := m.store.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	backup, ok, err := m.store.Load()
	if err != nil {
		return nil, err
	}

	res := &RestoreResult{Operation: uuid.NewString()}
	if !ok {
		m.log.InfoS("No backup to restore", "Quarantine")
		return res, nil
	}

	for _, e := range backup.Items {
		item := m.Enable(e)
		res.Items = append(res.Items, item)
		m.record(res.Operation, "restore", item)
	}

	m.log.InfoS(fmt.Sprintf("%d of %d entries restored", res.Count(), len(backup.Items)), "Quarantine")

	return res, nil
}

// Disable quarantines a single entry. Registry entries lose their value,
// files are renamed with the quarantine suffix.
func (m *Manager) Disable(e autorun.Entry) ItemResult {
	var item ItemResult

	if e.Kind == autorun.Registry {
		item = m.deleteValue(e)
	} else {
		item = m.move(e, e.Path, e.Path+m.locs.Suffix)
	}

	m.logItem("Disable", item)
	return item
}

// Enable undoes Disable. It never overwrites anything already present.
func (m *Manager) Enable(e autorun.Entry) ItemResult {
	var item ItemResult

	if e.Kind == autorun.Registry {
		item = m.setValue(e)
	} else {
		item = m.move(e, e.Path+m.locs.Suffix, e.Path)
	}

	m.logItem("Enable", item)
	return item
}

func (m *Manager) deleteValue(e autorun.Entry) ItemResult {
	err := m.reg.DeleteValue(e.Location, m.locs.RunKey, e.Name)
	switch {
	case err == nil:
		return ItemResult{Entry: e, Status: Succeeded}
	case errors.Is(err, os.ErrNotExist):
		return ItemResult{Entry: e, Status: Skipped, Err: ErrNotFound}
	}
	return ItemResult{Entry: e, Status: Failed, Err: err}
}

func (m *Manager) setValue(e autorun.Entry) ItemResult {
	values, err := m.reg.Values(e.Location, m.locs.RunKey)
	if err != nil {
		return ItemResult{Entry: e, Status: Failed, Err: err}
	}

	want := scanner.Value{Name: e.Name, Data: e.Path, Type: e.ValueType}
	if want.Type == "" {
		want.Type = scanner.TypeString
	}

	for _, v := range values {
		if v.Name != e.Name {
			continue
		}
		if v.Data == want.Data && v.Type == want.Type {
			return ItemResult{Entry: e, Status: Skipped}
		}
		return ItemResult{Entry: e, Status: Failed, Err: fmt.Errorf("%w: value %s", ErrConflict, e.Name)}
	}

	if err := m.reg.SetValue(e.Location, m.locs.RunKey, want); err != nil {
		return ItemResult{Entry: e, Status: Failed, Err: err}
	}

	return ItemResult{Entry: e, Status: Succeeded}
}

// move renames from to to. A missing source with an existing
// destination means the entry is already in the target state.
func (m *Manager) move(e autorun.Entry, from, to string) ItemResult {
	src, err := afero.Exists(m.fs, from)
	if err != nil {
		return ItemResult{Entry: e, Status: Failed, Err: err}
	}

	dst, err := afero.Exists(m.fs, to)
	if err != nil {
		return ItemResult{Entry: e, Status: Failed, Err: err}
	}

	switch {
	case !src && dst:
		return ItemResult{Entry: e, Status: Skipped}
	case !src:
		return ItemResult{Entry: e, Status: Failed, Err: fmt.Errorf("%w: %s", ErrNotFound, from)}
	case dst:
		return ItemResult{Entry: e, Status: Failed, Err: fmt.Errorf("%w: %s", ErrConflict, to)}
	}

	if err := m.fs.Rename(from, to); err != nil {
		return ItemResult{Entry: e, Status: Failed, Err: err}
	}

	return ItemResult{Entry: e, Status: Succeeded}
}

func (m *Manager) logItem(action string, item ItemResult) {
	var event *zerolog.Event
	if item.Status == Failed {
		event = m.log.Warn("Quarantine")
	} else {
		event = m.log.Info("Quarantine")
	}

	if item.Err != nil {
		event = event.Str("Reason", item.Err.Error())
	}

	event.Str("Type", "Quarantine").
		Str("Action", action).
		Str("Status", string(item.Status)).
		Str("Location", string(item.Entry.Location)).
		Str("Name", item.Entry.Name).
		Str("Path", item.Entry.Path).
		Send()
}

func (m *Manager) record(operation, action string, item ItemResult) {
	row := database.Action{
		Operation: operation,
		At:        m.now(),
		Action:    action,
		Location:  string(item.Entry.Location),
		Name:      item.Entry.Name,
		Path:      item.Entry.Path,
		Status:    string(item.Status),
	}

	if item.Err != nil {
		row.Error = item.Err.Error()
	}

	if err := m.journal.InsertAction(row); err != nil {
		m.log.Error(err, "Quarantine").
			Str("Operation", operation).
			Str("Name", item.Entry.Name).
			Msg("Journal write failed")
	}
}

func count(items []ItemResult) int {
	n := 0
	for _, item := range items {
		if item.Status == Succeeded {
			n++
		}
	}
	return n
}
