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

// Package config holds the rule tables and file locations used by the
// rest of Sintax. Values are read once and handed out by value.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SINTAX"

// Rules are the static heuristic tables consumed by the classifier.
type Rules struct {
	IdleNames       []string `mapstructure:"idle_names"`
	MinerNames      []string `mapstructure:"miner_names"`
	SpoofedNames    []string `mapstructure:"spoofed_names"`
	SystemDirs      []string `mapstructure:"system_dirs"`
	SuspiciousDirs  []string `mapstructure:"suspicious_dirs"`
	CPUThreshold    float64  `mapstructure:"cpu_threshold"`
	MemoryThreshold float64  `mapstructure:"memory_threshold"`
	TempFragments   []string `mapstructure:"temp_fragments"`
	Keywords        []string `mapstructure:"keywords"`
	TrustedDirs     []string `mapstructure:"trusted_dirs"`
}

// Locations describes where autostart entries live.
type Locations struct {
	RunKey        string   `mapstructure:"run_key"`
	UserStartup   string   `mapstructure:"user_startup"`
	CommonStartup string   `mapstructure:"common_startup"`
	Extensions    []string `mapstructure:"extensions"`
	Suffix        string   `mapstructure:"quarantine_suffix"`
}

type Config struct {
	Rules       Rules         `mapstructure:"rules"`
	Locations   Locations     `mapstructure:"locations"`
	BackupFile  string        `mapstructure:"backup_file"`
	LockFile    string        `mapstructure:"lock_file"`
	LogFile     string        `mapstructure:"log_file"`
	JournalFile string        `mapstructure:"journal_file"`
	Interval    time.Duration `mapstructure:"interval"`
	Debug       bool          `mapstructure:"debug"`
	Stdout      bool          `mapstructure:"stdout"`
}

// DefaultRules returns the built-in rule tables, expanded against
// the current environment.
func DefaultRules() Rules {
	systemRoot := envOr("SystemRoot", `C:\Windows`)

	return Rules{
		IdleNames:    []string{"System Idle Process"},
		MinerNames:   []string{"xmrig", "minerd", "cpuminer", "ethminer", "ccminer"},
		SpoofedNames: []string{"taskhr", "taskmgr", "taskeng", "csrss", "lsass", "smss"},
		SystemDirs: []string{
			systemRoot + `\System32`,
			systemRoot + `\SysWOW64`,
			systemRoot + `\System`,
		},
		SuspiciousDirs:  suspiciousDirs(),
		CPUThreshold:    70,
		MemoryThreshold: 30,
		TempFragments:   []string{`\temp\`, `\tmp\`, `\appdata\local\temp`},
		Keywords:        []string{"update", "helper", "service", "loader", "launcher", "host", "runtime"},
		TrustedDirs: []string{
			envOr("ProgramFiles", `C:\Program Files`),
			envOr("ProgramFiles(x86)", `C:\Program Files (x86)`),
			systemRoot,
			envOr("ProgramData", `C:\ProgramData`),
		},
	}
}

// DefaultLocations returns the four standard persistence locations.
// A folder is left empty when its base directory is unknown.
func DefaultLocations() Locations {
	return Locations{
		RunKey:        `Software\Microsoft\Windows\CurrentVersion\Run`,
		UserStartup:   startupFolder(os.Getenv("APPDATA")),
		CommonStartup: startupFolder(os.Getenv("PROGRAMDATA")),
		Extensions:    []string{".exe", ".bat", ".vbs", ".lnk"},
		Suffix:        ".quarantined",
	}
}

// Default returns the complete built-in configuration.
func Default() Config {
	tmp := os.TempDir()

	return Config{
		Rules:       DefaultRules(),
		Locations:   DefaultLocations(),
		BackupFile:  filepath.Join(tmp, "sintax_startup_backup.json"),
		LockFile:    filepath.Join(tmp, "sintax_startup_backup.lock"),
		LogFile:     filepath.Join(tmp, "sintax", "sintax.log"),
		JournalFile: filepath.Join(tmp, "sintax", "sintax.db"),
		Interval:    3 * time.Second,
	}
}

// Load reads the configuration. An empty file name means defaults
// plus SINTAX_* environment overrides only.
func Load(file string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if c.Interval <= 0 {
		return Config{}, fmt.Errorf("invalid polling interval %s", c.Interval)
	}

	return c, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("rules.idle_names", c.Rules.IdleNames)
	v.SetDefault("rules.miner_names", c.Rules.MinerNames)
	v.SetDefault("rules.spoofed_names", c.Rules.SpoofedNames)
	v.SetDefault("rules.system_dirs", c.Rules.SystemDirs)
	v.SetDefault("rules.suspicious_dirs", c.Rules.SuspiciousDirs)
	v.SetDefault("rules.cpu_threshold", c.Rules.CPUThreshold)
	v.SetDefault("rules.memory_threshold", c.Rules.MemoryThreshold)
	v.SetDefault("rules.temp_fragments", c.Rules.TempFragments)
	v.SetDefault("rules.keywords", c.Rules.Keywords)
	v.SetDefault("rules.trusted_dirs", c.Rules.TrustedDirs)

	v.SetDefault("locations.run_key", c.Locations.RunKey)
	v.SetDefault("locations.user_startup", c.Locations.UserStartup)
	v.SetDefault("locations.common_startup", c.Locations.CommonStartup)
	v.SetDefault("locations.extensions", c.Locations.Extensions)
	v.SetDefault("locations.quarantine_suffix", c.Locations.Suffix)

	v.SetDefault("backup_file", c.BackupFile)
	v.SetDefault("lock_file", c.LockFile)
	v.SetDefault("log_file", c.LogFile)
	v.SetDefault("journal_file", c.JournalFile)
	v.SetDefault("interval", c.Interval)
	v.SetDefault("debug", c.Debug)
	v.SetDefault("stdout", c.Stdout)
}

func suspiciousDirs() []string {
	var dirs []string

	if tmp := os.Getenv("TEMP"); tmp != "" {
		dirs = append(dirs, tmp)
	}
	if roaming := os.Getenv("APPDATA"); roaming != "" {
		dirs = append(dirs, roaming)
	}
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		dirs = append(dirs, local+`\Temp`)
	}

	return dirs
}

func startupFolder(base string) string {
	if base == "" {
		return ""
	}
	return filepath.Join(base, "Microsoft", "Windows", "Start Menu", "Programs", "Startup")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
