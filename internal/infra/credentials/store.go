package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// EnvAPIKey is the environment variable holding the OpenAI credential.
const EnvAPIKey = "OPENAI_API_KEY"

// ErrMissingAPIKey indicates no credential could be resolved from the
// environment or the fallback file. Startup treats this as fatal.
var ErrMissingAPIKey = errors.New("credentials: missing OpenAI API key, set " + EnvAPIKey + " or provide a credentials file")

type credentialsFile struct {
	APIKey string `json:"api_key"`
}

// Store resolves the API credential from the environment with a local JSON
// file fallback.
type Store struct {
	path string
}

// NewStore builds a Store reading the fallback file at path.
func NewStore(path string) *Store {
	return &Store{path: strings.TrimSpace(path)}
}

// APIKey returns the credential from the environment, else from the
// fallback file's api_key field, else ErrMissingAPIKey.
func (s *Store) APIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}
	key, err := s.fromFile()
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}

func (s *Store) fromFile() (string, error) {
	if s == nil || s.path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("credentials: read %s: %w", s.path, err)
	}
	var parsed credentialsFile
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("credentials: parse %s: %w", s.path, err)
	}
	return strings.TrimSpace(parsed.APIKey), nil
}
