package validation

import (
	"os"
	"path/filepath"
)

// PathHandler resolves the files brief reads and writes, falling back to the
// default locations when the user gives none.
type PathHandler struct {
	validator *FilePathValidator
}

func NewPathHandler() *PathHandler {
	return &PathHandler{validator: NewFilePathValidator()}
}

// NewRestrictedPathHandler confines every path to the brief directories and
// the temp dir.
func NewRestrictedPathHandler() *PathHandler {
	return &PathHandler{validator: NewRestrictedFilePathValidator()}
}

// ConfigPath returns a validated configuration path.
func (ph *PathHandler) ConfigPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".config", "brief", "config.toml")
	}
	return ph.validator.ValidateFile(userPath)
}

// CredentialsPath returns a validated path to the KEY=VALUE credentials file.
func (ph *PathHandler) CredentialsPath(userPath string) (string, error) {
	if userPath == "" {
		userPath = ".env"
	}
	return ph.validator.ValidateFile(userPath)
}

// LogPath returns a validated log file path.
func (ph *PathHandler) LogPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".brief", "brief.log")
	}
	return ph.validator.ValidateFile(userPath)
}
