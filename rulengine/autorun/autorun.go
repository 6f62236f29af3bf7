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

// Package autorun describes programs the OS launches at logon.
package autorun

import "strings"

// Location is one of the places consulted at logon.
type Location string

const (
	UserRunKey    Location = "HKCU"
	MachineRunKey Location = "HKLM"
	UserFolder    Location = "User"
	CommonFolder  Location = "Common"
)

// Locations in enumeration order.
var Locations = []Location{UserRunKey, MachineRunKey, UserFolder, CommonFolder}

// IsRegistry reports whether the location is a registry run-key.
func (l Location) IsRegistry() bool {
	return l == UserRunKey || l == MachineRunKey
}

// Kind is how an entry is stored in its location.
type Kind string

const (
	Registry Kind = "Registry"
	File     Kind = "File"
	Shortcut Kind = "Shortcut"
)

// Entry is a single autostart item. For registry entries Path holds
// the value data (a command line) and ValueType its registry type,
// for folder entries Path is the file path.
type Entry struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Location   Location `json:"location"`
	Kind       Kind     `json:"type"`
	ValueType  string   `json:"value_type,omitempty"`
	Enabled    bool     `json:"enabled"`
	Suspicious bool     `json:"is_suspicious"`
	Findings   []string `json:"findings,omitempty"`
}

// Key identifies an entry within one enumeration.
func (e Entry) Key() string {
	return string(e.Location) + `\` + e.Name
}

// KindOf derives the entry kind of a startup folder file.
func KindOf(file string) Kind {
	if strings.HasSuffix(strings.ToLower(file), ".lnk") {
		return Shortcut
	}
	return File
}
