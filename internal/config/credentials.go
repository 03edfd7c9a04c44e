package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/pders01/brief/internal/debuglog"
)

// LoadAPIKey reads key from a KEY=VALUE credentials file. A missing file,
// unreadable file or missing key is not an error: the key is returned empty
// and the upstream API is left to reject the request.
func LoadAPIKey(path, key string) string {
	if path == "" || key == "" {
		debuglog.Warnf("credentials: no file or key configured")
		return ""
	}

	values, err := godotenv.Read(path)
	if err != nil {
		debuglog.WithFields(map[string]interface{}{"path": path}).Warnf("credentials: %v", err)
		return ""
	}

	value, ok := values[key]
	if !ok {
		debuglog.WithFields(map[string]interface{}{"path": path}).Warnf("credentials: key %s not found", key)
		return ""
	}

	return strings.TrimSpace(value)
}
