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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 70.0, c.Rules.CPUThreshold)
	assert.Equal(t, 30.0, c.Rules.MemoryThreshold)
	assert.Contains(t, c.Rules.MinerNames, "xmrig")
	assert.Contains(t, c.Rules.Keywords, "runtime")
	assert.Equal(t, ".quarantined", c.Locations.Suffix)
	assert.Equal(t, 3*time.Second, c.Interval)
	assert.Equal(t, "sintax_startup_backup.json", filepath.Base(c.BackupFile))
}

func TestSuspiciousDirsFromEnv(t *testing.T) {
	t.Setenv("TEMP", `C:\Users\x\AppData\Local\Temp`)
	t.Setenv("APPDATA", `C:\Users\x\AppData\Roaming`)
	t.Setenv("LOCALAPPDATA", "")

	r := DefaultRules()
	assert.Equal(t, []string{`C:\Users\x\AppData\Local\Temp`, `C:\Users\x\AppData\Roaming`}, r.SuspiciousDirs)
}

func TestStartupFolderUnknown(t *testing.T) {
	t.Setenv("APPDATA", "")
	t.Setenv("PROGRAMDATA", "")

	l := DefaultLocations()
	assert.Empty(t, l.UserStartup)
	assert.Empty(t, l.CommonStartup)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sintax.yaml")
	yaml := []byte(`
rules:
  miner_names: [nbminer]
  cpu_threshold: 90
interval: 10s
locations:
  user_startup: /tmp/startup
`)
	require.NoError(t, os.WriteFile(file, yaml, 0600))

	c, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, []string{"nbminer"}, c.Rules.MinerNames)
	assert.Equal(t, 90.0, c.Rules.CPUThreshold)
	assert.Equal(t, 10*time.Second, c.Interval)
	assert.Equal(t, "/tmp/startup", c.Locations.UserStartup)
	// untouched keys keep their defaults
	assert.Contains(t, c.Rules.SpoofedNames, "lsass")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SINTAX_INTERVAL", "5s")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.Interval)
}
