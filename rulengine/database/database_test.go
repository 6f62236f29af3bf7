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

package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Journal {
	j, err := Open(filepath.Join(t.TempDir(), "journal", "sintax.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenCreatesTables(t *testing.T) {
	j := openTest(t)

	assert.True(t, j.TableExists("Threat"))
	assert.True(t, j.TableExists("Quarantine"))
	assert.False(t, j.TableExists("Executable"))
}

func TestSightings(t *testing.T) {
	j := openTest(t)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, j.InsertSighting(Sighting{Seen: now, Pid: 10, Name: "a.exe", Exe: `C:\a.exe`, Techniques: "Cryptominer", Danger: 5}))
	require.NoError(t, j.InsertSighting(Sighting{Seen: now, Pid: 11, Name: "b.exe", Techniques: "Suspicious Location", Danger: 3}))

	got, err := j.Sightings(10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// newest first
	assert.Equal(t, int32(11), got[0].Pid)
	assert.Equal(t, int32(10), got[1].Pid)
	assert.Equal(t, "Cryptominer", got[1].Techniques)
	assert.Equal(t, 5, got[1].Danger)
	assert.True(t, now.Equal(got[1].Seen))

	got, err = j.Sightings(1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestActions(t *testing.T) {
	j := openTest(t)

	now := time.Now().UTC()
	require.NoError(t, j.InsertAction(Action{Operation: "op1", At: now, Action: "freeze", Location: "HKCU", Name: "Upd", Path: `C:\u.exe`, Status: "succeeded"}))
	require.NoError(t, j.InsertAction(Action{Operation: "op1", At: now, Action: "freeze", Location: "User", Name: "x.lnk", Path: `C:\x.lnk`, Status: "failed", Error: "access denied"}))
	require.NoError(t, j.InsertAction(Action{Operation: "op2", At: now, Action: "restore", Location: "HKCU", Name: "Upd", Path: `C:\u.exe`, Status: "succeeded"}))

	got, err := j.Actions("op1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Upd", got[0].Name)
	assert.Equal(t, "access denied", got[1].Error)

	got, err = j.Actions("missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNilJournal(t *testing.T) {
	var j *Journal

	assert.NoError(t, j.InsertSighting(Sighting{}))
	assert.NoError(t, j.InsertAction(Action{}))
	assert.NoError(t, j.Close())

	got, err := j.Sightings(5)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
