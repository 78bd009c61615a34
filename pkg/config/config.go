// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads vigil's on-disk configuration: the template
// dictionary (dictionary.toml) and the secret registry (secrets.toml),
// resolved from XDG-style directories.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "vigil"

// AppConfig is everything loaded from the config directory.
type AppConfig struct {
	ConfigDir  string
	DataDir    string
	Dictionary *Dictionary
	Secrets    *Secrets
}

// Load resolves the config and data directories and reads dictionary and
// secrets files. Missing files load as empty; only malformed ones fail.
func Load() (*AppConfig, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}

	dict, err := LoadDictionary(filepath.Join(configDir, "dictionary.toml"))
	if err != nil {
		return nil, err
	}

	secrets, err := LoadSecrets(filepath.Join(configDir, "secrets.toml"))
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		ConfigDir:  configDir,
		DataDir:    dataDir,
		Dictionary: dict,
		Secrets:    secrets,
	}, nil
}

// ConfigDir is $XDG_CONFIG_HOME/vigil or ~/.config/vigil.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// DataDir is $XDG_DATA_HOME/vigil or ~/.local/share/vigil.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appDirName), nil
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	return home, nil
}
