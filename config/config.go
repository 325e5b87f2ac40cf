// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package config loads memsafe runtime profiles from YAML and applies them to
// the logging, metrics and allocation defaults.
//
// Profiles live in <project>/.memsafe/profiles.yaml:
//
//	profiles:
//	  production:
//	    logLevel: info
//	    logFormat: json
//	    metrics: true
//	    allocLimit: 268435456
//	    logRateLimit: 100
//
// Profiles missing from the file are filled from the built-in development,
// production and ci profiles. MEMSAFE_PROFILE overrides the profile name passed
// to Select.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jongio/memsafe-core/alloc"
	"github.com/jongio/memsafe-core/logutil"
	"github.com/jongio/memsafe-core/metrics"
	"github.com/jongio/memsafe-core/security"
	"gopkg.in/yaml.v3"
)

const (
	// EnvProfile selects the active profile by name.
	EnvProfile = "MEMSAFE_PROFILE"
	// DefaultProfile is used when no name is given.
	DefaultProfile = "development"
)

// ErrUnknownProfile indicates a profile name with no definition.
var ErrUnknownProfile = errors.New("unknown profile")

// ErrInvalidProfile indicates a profile with an out-of-range setting.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile is one named set of runtime settings.
type Profile struct {
	Name         string `yaml:"name"`
	LogLevel     string `yaml:"logLevel"`
	LogFormat    string `yaml:"logFormat"`
	Metrics      bool   `yaml:"metrics"`
	AllocLimit   uint64 `yaml:"allocLimit"`
	LogRateLimit int    `yaml:"logRateLimit"`
}

// Profiles contains multiple named profiles.
type Profiles struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// ProfilesPath returns the profiles file location for projectDir.
func ProfilesPath(projectDir string) string {
	return filepath.Join(projectDir, ".memsafe", "profiles.yaml")
}

// LoadProfiles reads the profiles file for projectDir and merges it over the
// defaults. A missing file yields the defaults. A group- or world-writable file
// is refused.
func LoadProfiles(projectDir string) (*Profiles, error) {
	path := ProfilesPath(projectDir)
	if err := security.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid profiles path: %w", err)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultProfiles(), nil
		}
		return nil, fmt.Errorf("failed to stat profiles: %w", err)
	}
	if err := security.ValidateFilePermissions(path); err != nil {
		return nil, fmt.Errorf("refusing profiles file %s: %w", path, err)
	}

	// #nosec G304 -- path validated by security.ValidatePath
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var profiles Profiles
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	if profiles.Profiles == nil {
		profiles.Profiles = make(map[string]Profile)
	}

	for name, profile := range profiles.Profiles {
		if profile.Name == "" {
			profile.Name = name
			profiles.Profiles[name] = profile
		}
		if err := profile.Validate(); err != nil {
			return nil, err
		}
	}

	for name, profile := range DefaultProfiles().Profiles {
		if _, exists := profiles.Profiles[name]; !exists {
			profiles.Profiles[name] = profile
		}
	}

	return &profiles, nil
}

// DefaultProfiles returns the built-in profiles.
func DefaultProfiles() *Profiles {
	return &Profiles{
		Profiles: map[string]Profile{
			"development": {
				Name:      "development",
				LogLevel:  "debug",
				LogFormat: "text",
				Metrics:   false,
			},
			"production": {
				Name:         "production",
				LogLevel:     "info",
				LogFormat:    "json",
				Metrics:      true,
				LogRateLimit: 100,
			},
			"ci": {
				Name:       "ci",
				LogLevel:   "info",
				LogFormat:  "json",
				Metrics:    false,
				AllocLimit: 1 << 30,
			},
		},
	}
}

// Names returns the profile names in sorted order.
func (p *Profiles) Names() []string {
	names := make([]string, 0, len(p.Profiles))
	for name := range p.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named profile. MEMSAFE_PROFILE, when set, takes
// precedence over name; an empty result falls back to DefaultProfile.
func (p *Profiles) Select(name string) (Profile, error) {
	if env := os.Getenv(EnvProfile); env != "" {
		name = env
	}
	if name == "" {
		name = DefaultProfile
	}
	profile, ok := p.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProfile, name, p.Names())
	}
	return profile, nil
}

// Validate checks the profile's settings.
func (p Profile) Validate() error {
	switch p.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w %q: logFormat must be text or json, got %q", ErrInvalidProfile, p.Name, p.LogFormat)
	}
	if p.LogRateLimit < 0 {
		return fmt.Errorf("%w %q: logRateLimit must not be negative", ErrInvalidProfile, p.Name)
	}
	return nil
}

// Apply configures the process from p: log level and format, metric
// recording, the default allocator and the default message logger's rate
// limit. An allocLimit of 0 restores the unbounded system allocator.
func Apply(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	logutil.SetLevel(logutil.ParseLevel(p.LogLevel))
	logutil.SetStructured(p.LogFormat == "json")
	metrics.SetEnabled(p.Metrics)

	if p.AllocLimit > 0 {
		alloc.SetDefault(alloc.NewBudget(p.AllocLimit, &alloc.SystemAllocator{}))
	} else {
		alloc.SetDefault(nil)
	}
	logutil.DefaultMessageLogger().SetRateLimit(p.LogRateLimit)

	logutil.Debug("profile applied", "profile", p.Name, "allocLimit", p.AllocLimit)
	return nil
}
