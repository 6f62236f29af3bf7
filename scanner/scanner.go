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

// Package scanner enumerates the autostart entries of the four
// persistence locations: both run-keys and both startup folders.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/0xN3utr0n/Sintax/config"
	"github.com/0xN3utr0n/Sintax/logger"
	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
	"github.com/0xN3utr0n/Sintax/rulengine/threat"
	"github.com/spf13/afero"
)

// ErrNoLocation means the location's folder could not be resolved.
var ErrNoLocation = errors.New("location not configured")

type Scanner struct {
	reg  Registry
	fs   afero.Fs
	cls  *threat.Classifier
	locs config.Locations
	log  *logger.Logger
}

func New(reg Registry, fs afero.Fs, cls *threat.Classifier, locs config.Locations, log *logger.Logger) *Scanner {
	if log == nil {
		log = logger.Nop()
	}

	return &Scanner{reg: reg, fs: fs, cls: cls, locs: locs, log: log}
}

// Enumerate returns the classified entries of every location, in
// location order. A location that cannot be read contributes nothing.
func (s *Scanner) Enumerate() []autorun.Entry {
	var entries []autorun.Entry

	for _, loc := range autorun.Locations {
		found, err := s.EnumerateLocation(loc)
		if err != nil {
			if errors.Is(err, ErrUnsupported) || errors.Is(err, ErrNoLocation) ||
				errors.Is(err, os.ErrNotExist) {
				s.log.DebugS(err.Error(), "Scanner")
			} else {
				s.log.WarnS(err.Error(), "Scanner")
			}
			continue
		}

		entries = append(entries, found...)
	}

	s.log.DebugS(fmt.Sprintf("%d autostart entries found", len(entries)), "Scanner")

	return entries
}

// EnumerateLocation reads and classifies the entries of a single
// location, sorted by name.
func (s *Scanner) EnumerateLocation(loc autorun.Location) ([]autorun.Entry, error) {
	var (
		entries []autorun.Entry
		err     error
	)

	if loc.IsRegistry() {
		entries, err = s.scanRunKey(loc)
	} else {
		entries, err = s.scanFolder(loc)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	for i := range entries {
		findings := s.cls.ClassifyEntry(&entries[i])
		threat.LogEntry(s.log, &entries[i], findings)
	}

	return entries, nil
}

// Folder returns the directory backing a startup folder location.
func (s *Scanner) Folder(loc autorun.Location) string {
	return Folder(s.locs, loc)
}

// Folder returns the directory backing a startup folder location,
// or an empty string for registry locations.
func Folder(locs config.Locations, loc autorun.Location) string {
	switch loc {
	case autorun.UserFolder:
		return locs.UserStartup
	case autorun.CommonFolder:
		return locs.CommonStartup
	}
	return ""
}

func (s *Scanner) scanRunKey(loc autorun.Location) ([]autorun.Entry, error) {
	values, err := s.reg.Values(loc, s.locs.RunKey)
	if err != nil {
		return nil, err
	}

	entries := make([]autorun.Entry, 0, len(values))
	for _, v := range values {
		entries = append(entries, autorun.Entry{
			Name:      v.Name,
			Path:      v.Data,
			Location:  loc,
			Kind:      autorun.Registry,
			ValueType: v.Type,
			Enabled:   true,
		})
	}

	return entries, nil
}

// scanFolder only looks at the top level of the folder.
func (s *Scanner) scanFolder(loc autorun.Location) ([]autorun.Entry, error) {
	dir := s.Folder(loc)
	if dir == "" {
		return nil, ErrNoLocation
	}

	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, err
	}

	var entries []autorun.Entry
	for _, info := range infos {
		if !info.Mode().IsRegular() || !s.launchable(info.Name()) {
			continue
		}

		entries = append(entries, autorun.Entry{
			Name:     info.Name(),
			Path:     filepath.Join(dir, info.Name()),
			Location: loc,
			Kind:     autorun.KindOf(info.Name()),
			Enabled:  true,
		})
	}

	return entries, nil
}

func (s *Scanner) launchable(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.locs.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
