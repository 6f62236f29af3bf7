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

package quarantine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
	"github.com/goccy/go-json"
	"github.com/nightlyone/lockfile"
	"github.com/spf13/afero"
)

// Backup is the single record restore works from. It only ever holds
// entries a freeze set out to disable.
type Backup struct {
	Operation string          `json:"operation,omitempty"`
	Timestamp string          `json:"timestamp"`
	Items     []autorun.Entry `json:"items"`
}

// Store keeps one backup slot on disk. Each Save replaces it.
type Store struct {
	fs   afero.Fs
	path string
	lock string
}

// NewStore returns a store writing to path. lock is the absolute path of
// the lock file guarding freeze and restore; empty disables locking.
func NewStore(fs afero.Fs, path, lock string) *Store {
	return &Store{fs: fs, path: path, lock: lock}
}

func (s *Store) Path() string {
	return s.path
}

// Save writes the backup to a temporary file and renames it into place,
// so a crash never leaves a truncated backup behind.
func (s *Store) Save(b *Backup) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0600); err != nil {
		s.fs.Remove(tmp)
		return err
	}

	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.fs.Remove(tmp)
		return err
	}

	return nil
}

// Load returns the stored backup. ok is false when there is none.
func (s *Store) Load() (b *Backup, ok bool, err error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("%w: %s", ErrCorruptBackup, err)
	}

	b = &Backup{}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, false, fmt.Errorf("%w: %s", ErrCorruptBackup, err)
	}

	return b, true, nil
}

// Lock takes the exclusive freeze/restore lock.
func (s *Store) Lock() (unlock func(), err error) {
	if s.lock == "" {
		return func() {}, nil
	}

	l, err := lockfile.New(s.lock)
	if err != nil {
		return nil, err
	}

	if err := l.TryLock(); err != nil {
		if errors.Is(err, lockfile.ErrBusy) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("locking %s: %w", s.lock, err)
	}

	return func() { l.Unlock() }, nil
}
