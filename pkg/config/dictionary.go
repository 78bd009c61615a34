package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Dictionary is the static two-level lookup table templates read with the
// custom: tag. On disk it is a TOML file of section tables:
//
//	[general]
//	name = "Franz"
//	location = "Lisbon"
type Dictionary struct {
	Entries map[string]map[string]string
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{Entries: map[string]map[string]string{}}
}

// LoadDictionary reads a dictionary TOML file. A missing file is not an
// error; it yields an empty dictionary. Values go through environment
// variable expansion.
func LoadDictionary(path string) (*Dictionary, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewDictionary(), nil
	}

	var entries map[string]map[string]string
	if _, err := toml.DecodeFile(path, &entries); err != nil {
		return nil, fmt.Errorf("invalid dictionary TOML %s: %w", path, err)
	}

	for _, section := range entries {
		for key, value := range section {
			section[key] = ExpandEnvVars(value)
		}
	}

	return &Dictionary{Entries: entries}, nil
}

// Lookup returns the value for a section and key. Satisfies
// template.Dictionary.
func (d *Dictionary) Lookup(section, key string) (string, bool) {
	v, ok := d.Entries[section][key]
	return v, ok
}

// Set stores a value, creating the section if needed.
func (d *Dictionary) Set(section, key, value string) {
	if d.Entries == nil {
		d.Entries = map[string]map[string]string{}
	}
	if d.Entries[section] == nil {
		d.Entries[section] = map[string]string{}
	}
	d.Entries[section][key] = value
}
