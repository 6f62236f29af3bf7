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
	"os"
	"runtime"
	"testing"

	"github.com/0xN3utr0n/Sintax/config"
	"github.com/0xN3utr0n/Sintax/logger"
	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
	"github.com/0xN3utr0n/Sintax/rulengine/threat"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runKey = `Software\Microsoft\Windows\CurrentVersion\Run`

func testLocations() config.Locations {
	return config.Locations{
		RunKey:        runKey,
		UserStartup:   "/startup/user",
		CommonStartup: "/startup/common",
		Extensions:    []string{".exe", ".bat", ".vbs", ".lnk"},
		Suffix:        ".quarantined",
	}
}

func testClassifier() *threat.Classifier {
	return threat.New(config.Rules{
		TempFragments: []string{`\temp\`, `\tmp\`, `\appdata\local\temp`, "/tmp/"},
		Keywords:      []string{"update", "helper", "service", "loader", "launcher", "host", "runtime"},
		TrustedDirs:   []string{`C:\Program Files`, `C:\Windows`, "/opt/trusted"},
	})
}

func populate(t *testing.T) (*MemoryRegistry, afero.Fs) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.SetValue(autorun.UserRunKey, runKey, Value{Name: "Zeta", Data: `C:\z.exe`}))
	require.NoError(t, reg.SetValue(autorun.UserRunKey, runKey, Value{Name: "Alpha", Data: `C:\Users\x\AppData\Local\Temp\a.exe`}))
	require.NoError(t, reg.SetValue(autorun.MachineRunKey, runKey, Value{Name: "Driver", Data: `C:\Program Files\drv.exe`}))

	fs := afero.NewMemMapFs()
	for _, f := range []string{
		"/startup/user/updater.exe",
		"/startup/user/readme.txt",
		"/startup/user/Helper.LNK",
		"/startup/user/old.exe.quarantined",
		"/startup/common/run.bat",
	} {
		require.NoError(t, afero.WriteFile(fs, f, []byte("MZ"), 0644))
	}
	require.NoError(t, fs.MkdirAll("/startup/user/sub.exe", 0755))

	return reg, fs
}

func TestEnumerate(t *testing.T) {
	reg, fs := populate(t)
	s := New(reg, fs, testClassifier(), testLocations(), logger.Nop())

	entries := s.Enumerate()

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
		assert.True(t, e.Enabled, e.Name)
	}
	assert.Equal(t, []string{"Alpha", "Zeta", "Driver", "Helper.LNK", "updater.exe", "run.bat"}, names)

	assert.Equal(t, autorun.UserRunKey, entries[0].Location)
	assert.Equal(t, autorun.Registry, entries[0].Kind)
	assert.Equal(t, `C:\Users\x\AppData\Local\Temp\a.exe`, entries[0].Path)
	assert.Equal(t, []string{threat.TempAutostart}, entries[0].Findings)
	assert.Equal(t, TypeString, entries[0].ValueType)

	assert.False(t, entries[1].Suspicious)
	assert.Equal(t, autorun.MachineRunKey, entries[2].Location)
	assert.False(t, entries[2].Suspicious)

	assert.Equal(t, autorun.UserFolder, entries[3].Location)
	assert.Equal(t, autorun.Shortcut, entries[3].Kind)
	assert.Equal(t, "/startup/user/Helper.LNK", entries[3].Path)
	assert.Equal(t, []string{threat.GenericAutostart}, entries[3].Findings)

	assert.Equal(t, autorun.File, entries[4].Kind)
	assert.True(t, entries[4].Suspicious)

	assert.Equal(t, autorun.CommonFolder, entries[5].Location)
	assert.False(t, entries[5].Suspicious)
}

func TestUniqueWithinLocation(t *testing.T) {
	reg, fs := populate(t)
	s := New(reg, fs, testClassifier(), testLocations(), nil)

	seen := make(map[string]bool)
	for _, e := range s.Enumerate() {
		assert.False(t, seen[e.Key()], e.Key())
		seen[e.Key()] = true
	}
}

func TestInaccessibleLocation(t *testing.T) {
	reg, fs := populate(t)
	reg.Deny(autorun.MachineRunKey)
	s := New(reg, fs, testClassifier(), testLocations(), logger.Nop())

	_, err := s.EnumerateLocation(autorun.MachineRunKey)
	assert.ErrorIs(t, err, os.ErrPermission)

	entries := s.Enumerate()
	assert.Len(t, entries, 5)
	for _, e := range entries {
		assert.NotEqual(t, autorun.MachineRunKey, e.Location)
	}
}

func TestMissingFolder(t *testing.T) {
	reg, fs := populate(t)
	require.NoError(t, fs.RemoveAll("/startup/common"))
	s := New(reg, fs, testClassifier(), testLocations(), logger.Nop())

	_, err := s.EnumerateLocation(autorun.CommonFolder)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Len(t, s.Enumerate(), 5)
}

func TestUnknownFolder(t *testing.T) {
	reg, fs := populate(t)
	locs := testLocations()
	locs.UserStartup = ""
	s := New(reg, fs, testClassifier(), locs, logger.Nop())

	_, err := s.EnumerateLocation(autorun.UserFolder)
	assert.ErrorIs(t, err, ErrNoLocation)
	assert.Len(t, s.Enumerate(), 4)
}

func TestEmptyRunKey(t *testing.T) {
	s := New(NewMemoryRegistry(), afero.NewMemMapFs(), testClassifier(), testLocations(), logger.Nop())

	entries, err := s.EnumerateLocation(autorun.UserRunKey)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnsupportedRegistry(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("live registry available")
	}

	_, fs := populate(t)
	s := New(NewRegistry(), fs, testClassifier(), testLocations(), logger.Nop())

	_, err := s.EnumerateLocation(autorun.UserRunKey)
	assert.ErrorIs(t, err, ErrUnsupported)

	// folders still work
	assert.Len(t, s.Enumerate(), 3)
}

func TestMemoryRegistry(t *testing.T) {
	reg := NewMemoryRegistry()

	assert.ErrorIs(t, reg.DeleteValue(autorun.UserRunKey, runKey, "x"), os.ErrNotExist)

	require.NoError(t, reg.SetValue(autorun.UserRunKey, runKey, Value{Name: "x", Data: "data"}))
	values, err := reg.Values(autorun.UserRunKey, `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`)
	require.NoError(t, err)
	assert.Equal(t, []Value{{Name: "x", Data: "data", Type: TypeString}}, values)

	reg.ReadOnly(autorun.UserRunKey)
	assert.ErrorIs(t, reg.DeleteValue(autorun.UserRunKey, runKey, "x"), os.ErrPermission)
	values, err = reg.Values(autorun.UserRunKey, runKey)
	require.NoError(t, err)
	assert.Len(t, values, 1)
}

func TestExpandStringValue(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.SetValue(autorun.UserRunKey, runKey, Value{
		Name: "Vendor",
		Data: `%ProgramFiles%\Vendor\agent.exe`,
		Type: TypeExpandString,
	}))

	values, err := reg.Values(autorun.UserRunKey, runKey)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, TypeExpandString, values[0].Type)

	s := New(reg, afero.NewMemMapFs(), testClassifier(), testLocations(), logger.Nop())
	entries, err := s.EnumerateLocation(autorun.UserRunKey)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, TypeExpandString, entries[0].ValueType)
	assert.Equal(t, `%ProgramFiles%\Vendor\agent.exe`, entries[0].Path)

	// folder entries carry no value type
	assert.Empty(t, autorun.Entry{Kind: autorun.File}.ValueType)
}
