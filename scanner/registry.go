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

package scanner

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
)

// ErrUnsupported is returned by the registry on platforms without one.
var ErrUnsupported = errors.New("registry not supported on this platform")

// String value types. An empty type reads as REG_SZ.
const (
	TypeString       = "REG_SZ"
	TypeExpandString = "REG_EXPAND_SZ"
)

// Value is a named string value of a registry key.
type Value struct {
	Name string
	Data string
	Type string
}

// Registry is the subset of registry operations used for run-keys.
// Only string values are ever returned. A missing key has no values.
// Deleting a missing value fails with an error matching os.ErrNotExist.
// SetValue writes the value with its own type.
type Registry interface {
	Values(hive autorun.Location, path string) ([]Value, error)
	DeleteValue(hive autorun.Location, path, name string) error
	SetValue(hive autorun.Location, path string, v Value) error
}

// MemoryRegistry is a Registry kept in memory.
type MemoryRegistry struct {
	mu       sync.Mutex
	keys     map[string]map[string]Value
	denied   map[autorun.Location]bool
	readOnly map[autorun.Location]bool
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		keys:     make(map[string]map[string]Value),
		denied:   make(map[autorun.Location]bool),
		readOnly: make(map[autorun.Location]bool),
	}
}

// Deny makes every operation on the hive fail with os.ErrPermission.
func (m *MemoryRegistry) Deny(hive autorun.Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied[hive] = true
}

// ReadOnly makes writes to the hive fail with os.ErrPermission.
func (m *MemoryRegistry) ReadOnly(hive autorun.Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readOnly[hive] = true
}

func (m *MemoryRegistry) Values(hive autorun.Location, path string) ([]Value, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.denied[hive] {
		return nil, fmt.Errorf("%s\\%s: %w", hive, path, os.ErrPermission)
	}

	var values []Value
	for _, v := range m.keys[memoryKey(hive, path)] {
		values = append(values, v)
	}

	sort.Slice(values, func(i, j int) bool { return values[i].Name < values[j].Name })
	return values, nil
}

func (m *MemoryRegistry) DeleteValue(hive autorun.Location, path, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.denied[hive] || m.readOnly[hive] {
		return fmt.Errorf("%s\\%s: %w", hive, path, os.ErrPermission)
	}

	key := m.keys[memoryKey(hive, path)]
	if _, ok := key[name]; !ok {
		return fmt.Errorf("%s\\%s\\%s: %w", hive, path, name, os.ErrNotExist)
	}

	delete(key, name)
	return nil
}

func (m *MemoryRegistry) SetValue(hive autorun.Location, path string, v Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.denied[hive] || m.readOnly[hive] {
		return fmt.Errorf("%s\\%s: %w", hive, path, os.ErrPermission)
	}

	k := memoryKey(hive, path)
	if m.keys[k] == nil {
		m.keys[k] = make(map[string]Value)
	}

	if v.Type == "" {
		v.Type = TypeString
	}

	m.keys[k][v.Name] = v
	return nil
}

// Key paths are case-insensitive, as on Windows.
func memoryKey(hive autorun.Location, path string) string {
	return string(hive) + `\` + strings.ToLower(path)
}
