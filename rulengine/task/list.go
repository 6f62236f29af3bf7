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

package task

import (
	"sort"
	"sync"
)

type List struct {
	tasks map[int32]*Task
	mutex sync.RWMutex
}

// NewList Returns a hashmap for safe concurrent access.
func NewList(size int) *List {
	return &List{tasks: make(map[int32]*Task, size)}
}

func (list *List) Insert(pid int32, current *Task) {
	list.mutex.Lock()
	list.tasks[pid] = current
	list.mutex.Unlock()
}

func (list *List) Delete(pid int32) {
	list.mutex.Lock()
	delete(list.tasks, pid)
	list.mutex.Unlock()
}

func (list *List) Get(pid int32) *Task {
	list.mutex.RLock()
	t := list.tasks[pid]
	list.mutex.RUnlock()

	return t
}

func (list *List) Len() int {
	list.mutex.RLock()
	n := len(list.tasks)
	list.mutex.RUnlock()

	return n
}

// Sorted returns every stored task ordered by pid.
func (list *List) Sorted() []*Task {
	list.mutex.RLock()
	out := make([]*Task, 0, len(list.tasks))
	for _, t := range list.tasks {
		out = append(out, t)
	}
	list.mutex.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Pid < out[j].Pid })
	return out
}
