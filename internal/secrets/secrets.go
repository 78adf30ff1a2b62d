// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: anthropic-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/medscribe/pkg/types"
)

// Key file names.
const (
	AnthropicAPIKey = "anthropic-api-key"
	GeminiAPIKey    = "gemini-api-key"
)

// envFallback maps key files to the environment variables consulted when
// the file is absent.
var envFallback = map[string]string{
	AnthropicAPIKey: "ANTHROPIC_API_KEY",
	GeminiAPIKey:    "GEMINI_API_KEY",
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// KeyFor returns the key file name a sentiment backend authenticates with,
// or "" when it needs none.
func KeyFor(backend types.SentimentBackend) string {
	switch backend {
	case types.BackendClaude:
		return AnthropicAPIKey
	case types.BackendGemini:
		return GeminiAPIKey
	default:
		return ""
	}
}

// Lookup returns explicit when set, then the loaded secret for key, then
// the key's environment variable.
func Lookup(loaded map[string]string, key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if key == "" {
		return ""
	}
	if v, ok := loaded[key]; ok {
		return v
	}
	if env, ok := envFallback[key]; ok {
		return os.Getenv(env)
	}
	return ""
}
