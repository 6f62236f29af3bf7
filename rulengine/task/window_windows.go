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

//go:build windows

package task

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modUser32                    = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows              = modUser32.NewProc("EnumWindows")
	procIsWindowVisible          = modUser32.NewProc("IsWindowVisible")
	procGetWindowThreadProcessId = modUser32.NewProc("GetWindowThreadProcessId")
)

var (
	// Callbacks are never released by the runtime, so only one is created.
	enumCallback = windows.NewCallback(collectWindow)
	enumMutex    sync.Mutex
	enumVisible  map[int32]bool
)

type desktop struct{}

// NewWindows returns the window enumeration capability.
func NewWindows() Windows {
	return desktop{}
}

func (desktop) VisiblePids() (map[int32]bool, error) {
	enumMutex.Lock()
	defer enumMutex.Unlock()

	enumVisible = make(map[int32]bool)
	defer func() { enumVisible = nil }()

	if ret, _, err := procEnumWindows.Call(enumCallback, 0); ret == 0 {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}

	visible := enumVisible
	return visible, nil
}

func collectWindow(hwnd uintptr, _ uintptr) uintptr {
	if ret, _, _ := procIsWindowVisible.Call(hwnd); ret == 0 {
		return 1
	}

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid != 0 {
		enumVisible[int32(pid)] = true
	}

	return 1 // continue enumeration
}
