package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// Secret is one named credential record. Only MatchURL is exposed to
// templates (via the proxy: tag); Key never leaves this package through
// logs or String.
type Secret struct {
	Key      string `toml:"key"`
	Header   string `toml:"header"`
	MatchURL string `toml:"match"`
}

// String redacts the key.
func (s Secret) String() string {
	return fmt.Sprintf("Secret{key:***, header:%s, match:%s}", s.Header, s.MatchURL)
}

// Secrets is the named secret registry loaded from secrets.toml:
//
//	[formshive]
//	key = "abc123"
//	header = "bearer"
//	match = "https://api.formshive.com"
type Secrets struct {
	Entries map[string]Secret
}

// NewSecrets returns an empty registry.
func NewSecrets() *Secrets {
	return &Secrets{Entries: map[string]Secret{}}
}

// LoadSecrets reads a secrets TOML file. A missing file yields an empty
// registry. The header defaults to "bearer" when omitted.
func LoadSecrets(path string) (*Secrets, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewSecrets(), nil
	}

	checkPermissions(path)

	var entries map[string]Secret
	if _, err := toml.DecodeFile(path, &entries); err != nil {
		return nil, fmt.Errorf("invalid secrets TOML %s: %w", path, err)
	}

	for name, secret := range entries {
		if secret.Header == "" {
			secret.Header = "bearer"
		}
		secret.Key = ExpandEnvVars(secret.Key)
		secret.MatchURL = ExpandEnvVars(secret.MatchURL)
		entries[name] = secret
	}

	return &Secrets{Entries: entries}, nil
}

// checkPermissions warns when the secrets file is readable by group or
// others. Secrets should be 0600.
func checkPermissions(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		slog.Warn("secrets file should not be world-readable",
			"path", path,
			"mode", fmt.Sprintf("%04o", mode),
			"fix", "chmod 600 "+path)
	}
}

// Get returns a secret by name.
func (s *Secrets) Get(name string) (Secret, bool) {
	secret, ok := s.Entries[name]
	return secret, ok
}

// MatchURL returns the match URL of a named secret. Satisfies
// template.Secrets.
func (s *Secrets) MatchURL(name string) (string, bool) {
	secret, ok := s.Entries[name]
	if !ok {
		return "", false
	}
	return secret.MatchURL, true
}
