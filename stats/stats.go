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

// Package stats reads a one-off summary of host resource usage.
package stats

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

type Sensor struct {
	Name    string
	Celsius float64
}

type Snapshot struct {
	CPU           float64 // percent
	MemoryPercent float64
	MemoryUsed    uint64 // bytes
	MemoryTotal   uint64
	Disk          string // mountpoint
	DiskPercent   float64
	// Temperatures is empty where the platform exposes no sensors.
	Temperatures []Sensor
}

// Collect samples CPU usage over the given window and reads memory,
// system disk and temperature sensors. Disk and sensors are optional.
func Collect(sample time.Duration) (*Snapshot, error) {
	percents, err := cpu.Percent(sample, false)
	if err != nil {
		return nil, fmt.Errorf("reading cpu: %w", err)
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("reading memory: %w", err)
	}

	s := &Snapshot{
		MemoryPercent: vm.UsedPercent,
		MemoryUsed:    vm.Used,
		MemoryTotal:   vm.Total,
		Disk:          SystemDisk(),
	}

	if len(percents) > 0 {
		s.CPU = percents[0]
	}

	if usage, err := disk.Usage(s.Disk); err == nil {
		s.DiskPercent = usage.UsedPercent
	}

	// Partial results come with a warning error
	temps, _ := host.SensorsTemperatures()
	for _, t := range temps {
		if t.Temperature <= 0 {
			continue
		}
		s.Temperatures = append(s.Temperatures, Sensor{Name: t.SensorKey, Celsius: t.Temperature})
	}

	return s, nil
}

// SystemDisk returns the mountpoint of the operating system volume.
func SystemDisk() string {
	if runtime.GOOS != "windows" {
		return "/"
	}

	if drive := os.Getenv("SystemDrive"); drive != "" {
		return drive + `\`
	}
	return `C:\`
}

// GiB converts bytes to whole gibibytes.
func GiB(b uint64) uint64 {
	return b >> 30
}
