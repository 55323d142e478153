package credstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"diskowner/domain/contracts"
	"diskowner/logging"
)

const (
	// DefaultDirName is created under the user's home directory.
	DefaultDirName = ".y360_disk_owner"
	// FileName holds the record in dotenv format.
	FileName = ".env"

	KeyToken = "API_TOKEN"
	KeyOrgID = "ORG_ID"

	filePerm fs.FileMode = 0o600
	dirPerm  fs.FileMode = 0o700

	redactedToken   = "***"
	minMaskedLength = 12
	maskPrefixLen   = 9
	maskSuffixLen   = 4
)

// Store keeps the token and organization id in a dotenv file readable only by
// its owner.
type Store struct {
	dir    string
	path   string
	logger *logging.Logger
}

var _ contracts.CredentialStore = (*Store)(nil)

// DefaultDir returns ~/.y360_disk_owner.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// New creates a store rooted at dir. An empty dir resolves to DefaultDir.
func New(dir string) (*Store, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	return &Store{
		dir:    dir,
		path:   filepath.Join(dir, FileName),
		logger: logging.Default().WithComponent("credential_store"),
	}, nil
}

// Path returns the location of the dotenv file.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the dotenv file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the saved token and organization id. A missing file yields empty
// values and no error.
func (s *Store) Load() (string, string, error) {
	values, err := godotenv.Read(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("read credential file: %w", err)
	}
	return values[KeyToken], values[KeyOrgID], nil
}

// Save writes the record, keeping any other keys already in the file, and
// re-applies owner-only permissions afterwards regardless of umask.
func (s *Store) Save(token, orgID string) error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, filePerm)
		if err != nil {
			return fmt.Errorf("create credential file: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("create credential file: %w", err)
		}
	}

	values, err := godotenv.Read(s.path)
	if err != nil {
		s.logger.Warn("Existing credential file unreadable, rewriting", "path", s.path, "error", err)
		values = make(map[string]string)
	}
	values[KeyToken] = token
	values[KeyOrgID] = orgID

	if err := godotenv.Write(values, s.path); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := os.Chmod(s.path, filePerm); err != nil {
		return fmt.Errorf("restrict credential file permissions: %w", err)
	}

	s.logger.Credentials("Credential saved", "path", s.path, "token", Mask(token), "org_id", orgID)
	return nil
}

// Delete removes the dotenv file if present.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete credential file: %w", err)
	}
	s.logger.Credentials("Credential deleted", "path", s.path)
	return nil
}

// Mask delegates to the package-level Mask.
func (s *Store) Mask(token string) string {
	return Mask(token)
}

// Mask shows the first 9 and last 4 characters of a token. Tokens shorter than
// 12 characters are fully redacted.
func Mask(token string) string {
	runes := []rune(token)
	if len(runes) < minMaskedLength {
		return redactedToken
	}
	return string(runes[:maskPrefixLen]) + "..." + string(runes[len(runes)-maskSuffixLen:])
}
