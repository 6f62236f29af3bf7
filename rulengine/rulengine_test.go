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

package rulengine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/0xN3utr0n/Sintax/config"
	"github.com/0xN3utr0n/Sintax/rulengine/database"
	"github.com/0xN3utr0n/Sintax/rulengine/task"
	"github.com/0xN3utr0n/Sintax/rulengine/threat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	procs    map[int32]task.Task
	fetchErr map[int32]error
	killErr  map[int32]error
	pidsErr  error
	killed   []int32
}

func newFakeSource(procs ...task.Task) *fakeSource {
	s := &fakeSource{
		procs:    make(map[int32]task.Task),
		fetchErr: make(map[int32]error),
		killErr:  make(map[int32]error),
	}
	for _, p := range procs {
		s.procs[p.Pid] = p
	}
	return s
}

func (s *fakeSource) Pids() ([]int32, error) {
	if s.pidsErr != nil {
		return nil, s.pidsErr
	}

	var pids []int32
	for pid := range s.procs {
		pids = append(pids, pid)
	}
	for pid := range s.fetchErr {
		pids = append(pids, pid)
	}

	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids, nil
}

func (s *fakeSource) Fetch(pid int32) (*task.Task, error) {
	if err := s.fetchErr[pid]; err != nil {
		return nil, err
	}

	p, ok := s.procs[pid]
	if !ok {
		return nil, task.ErrGone
	}
	return &p, nil
}

func (s *fakeSource) Terminate(pid int32) error {
	if err := s.killErr[pid]; err != nil {
		return err
	}
	s.killed = append(s.killed, pid)
	return nil
}

type fakeWindows struct {
	visible map[int32]bool
	err     error
}

func (w fakeWindows) VisiblePids() (map[int32]bool, error) {
	return w.visible, w.err
}

func classifier() *threat.Classifier {
	return threat.New(config.Rules{
		IdleNames:       []string{"System Idle Process"},
		MinerNames:      []string{"xmrig", "minerd", "cpuminer", "ethminer", "ccminer"},
		SpoofedNames:    []string{"taskhr", "taskmgr", "taskeng", "csrss", "lsass", "smss"},
		SystemDirs:      []string{`C:\Windows\System32`, `C:\Windows\SysWOW64`, `C:\Windows\System`},
		SuspiciousDirs:  []string{`C:\Users\x\AppData\Local\Temp`},
		CPUThreshold:    70,
		MemoryThreshold: 30,
	})
}

func scenario() *fakeSource {
	src := newFakeSource(
		task.Task{Pid: 4, Name: "System Idle Process"},
		task.Task{Pid: 1337, Name: "xmrig64", Exe: `C:\Users\x\AppData\Local\Temp\xmrig64.exe`},
		task.Task{Pid: 200, Name: "explorer.exe", Exe: `C:\Windows\explorer.exe`},
	)
	src.fetchErr[500] = task.ErrGone
	src.fetchErr[501] = task.ErrAccessDenied
	return src
}

func pids(tasks []*task.Task) []int32 {
	out := make([]int32, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Pid)
	}
	return out
}

func TestEnumerate(t *testing.T) {
	m := NewMonitor(scenario(), nil, classifier())

	tasks, err := m.Enumerate()
	require.NoError(t, err)

	// vanished and protected processes are skipped
	assert.Equal(t, []int32{4, 200, 1337}, pids(tasks))
	assert.Equal(t, []int32{1337}, pids(m.Threats()))
	assert.Equal(t, []string{threat.Cryptominer, threat.SuspiciousPath}, m.Threats()[0].Findings)
}

func TestEnumerateListingFails(t *testing.T) {
	src := scenario()
	src.pidsErr = errors.New("no snapshot")
	m := NewMonitor(src, nil, classifier())

	tasks, err := m.Enumerate()
	assert.Error(t, err)
	assert.Nil(t, tasks)

	_, err = m.TerminateFlagged()
	assert.Error(t, err)
}

func TestHiddenProcesses(t *testing.T) {
	src := newFakeSource(
		task.Task{Pid: 300, Name: "worker.exe", Exe: `D:\w.exe`, CPU: 90},
		task.Task{Pid: 301, Name: "game.exe", Exe: `D:\g.exe`, CPU: 90},
	)

	m := NewMonitor(src, fakeWindows{visible: map[int32]bool{301: true}}, classifier())
	tasks, err := m.Enumerate()
	require.NoError(t, err)
	assert.True(t, tasks[0].Hidden)
	assert.False(t, tasks[1].Hidden)
	assert.Equal(t, []int32{300}, pids(m.Threats()))

	// no window information: the rule never fires
	m = NewMonitor(src, nil, classifier())
	_, err = m.Enumerate()
	require.NoError(t, err)
	assert.Empty(t, m.Threats())

	m = NewMonitor(src, fakeWindows{err: errors.New("no desktop")}, classifier())
	_, err = m.Enumerate()
	require.NoError(t, err)
	assert.Empty(t, m.Threats())
}

func TestLatestSightingWins(t *testing.T) {
	src := newFakeSource(task.Task{Pid: 77, Name: "xmrig", Created: time.Unix(100, 0)})
	m := NewMonitor(src, nil, classifier())

	_, err := m.Enumerate()
	require.NoError(t, err)

	src.procs[77] = task.Task{Pid: 77, Name: "minerd", Created: time.Unix(200, 0)}
	_, err = m.Enumerate()
	require.NoError(t, err)

	threats := m.Threats()
	require.Len(t, threats, 1)
	assert.Equal(t, "minerd", threats[0].Name)
}

func TestReusedPidBecomesBenign(t *testing.T) {
	src := newFakeSource(task.Task{Pid: 77, Name: "xmrig", Created: time.Unix(100, 0)})
	m := NewMonitor(src, nil, classifier())

	_, err := m.Enumerate()
	require.NoError(t, err)
	require.Len(t, m.Threats(), 1)

	// same process, no longer matching: still remembered
	m.cls = threat.New(config.Rules{})
	_, err = m.Enumerate()
	require.NoError(t, err)
	assert.Len(t, m.Threats(), 1)

	// the pid now belongs to another process
	src.procs[77] = task.Task{Pid: 77, Name: "notepad.exe", Created: time.Unix(300, 0)}
	_, err = m.Enumerate()
	require.NoError(t, err)
	assert.Empty(t, m.Threats())
}

func TestTerminateSkipsUnverifiedSpoof(t *testing.T) {
	src := newFakeSource(
		task.Task{Pid: 600, Name: "lsass.exe"},
		task.Task{Pid: 601, Name: "csrss.exe", Exe: `C:\Windows\System32\csrss.exe`},
		task.Task{Pid: 602, Name: "lsass.exe", Exe: `D:\x\lsass.exe`},
		task.Task{Pid: 603, Name: "lsass-xmrig"},
	)

	m := NewMonitor(src, nil, classifier())
	report, err := m.TerminateFlagged()
	require.NoError(t, err)

	// flagged, but only killed when the image path proves the spoof
	assert.Equal(t, []int32{600, 602, 603}, pids(m.Threats()))
	assert.Equal(t, []int32{602, 603}, pids(report.Issued))
	assert.Empty(t, report.Failed)
	assert.Equal(t, []int32{602, 603}, src.killed)
}

func TestTerminateFlagged(t *testing.T) {
	self := int32(os.Getpid())
	src := newFakeSource(
		task.Task{Pid: 1337, Name: "xmrig64"},
		task.Task{Pid: 1338, Name: "minerd"},
		task.Task{Pid: 200, Name: "explorer.exe", Exe: `C:\Windows\explorer.exe`},
		task.Task{Pid: self, Name: "cpuminer"},
	)
	src.killErr[1338] = task.ErrAccessDenied

	m := NewMonitor(src, nil, classifier())
	report, err := m.TerminateFlagged()
	require.NoError(t, err)

	assert.Equal(t, []int32{1337}, pids(report.Issued))
	require.Len(t, report.Failed, 1)
	assert.Equal(t, int32(1338), report.Failed[0].Task.Pid)
	assert.ErrorIs(t, report.Failed[0].Err, task.ErrAccessDenied)

	// terminate is requested once per process, never for ourselves
	assert.Equal(t, []int32{1337}, src.killed)
}

func TestWatch(t *testing.T) {
	m := NewMonitor(scenario(), nil, classifier())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	passes := 0
	err := m.Watch(ctx, time.Millisecond, func(tasks []*task.Task) {
		passes++
		assert.Len(t, tasks, 3)
		if passes == 3 {
			cancel()
		}
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, passes)
}

func TestWatchInvalidInterval(t *testing.T) {
	m := NewMonitor(scenario(), nil, classifier())

	for _, interval := range []time.Duration{0, -time.Second} {
		called := false
		err := m.Watch(context.Background(), interval, func([]*task.Task) { called = true })
		assert.Error(t, err, interval.String())
		assert.False(t, called)
	}
}

func TestWatchListingFails(t *testing.T) {
	src := scenario()
	src.pidsErr = errors.New("no snapshot")
	m := NewMonitor(src, nil, classifier())

	err := m.Watch(context.Background(), time.Millisecond, nil)
	assert.Error(t, err)
}

func TestJournalSightings(t *testing.T) {
	j, err := database.Open(filepath.Join(t.TempDir(), "sintax.db"))
	require.NoError(t, err)
	defer j.Close()

	m := NewMonitor(scenario(), nil, classifier(), WithJournal(j))
	for i := 0; i < 3; i++ {
		_, err := m.Enumerate()
		require.NoError(t, err)
	}

	rows, err := j.Sightings(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(1337), rows[0].Pid)
	assert.Equal(t, "Cryptominer,Suspicious Location", rows[0].Techniques)
	assert.Equal(t, threat.High, rows[0].Danger)
}
