package common

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// FileHash streams a file through SHA256 and returns the hex digest.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Marshal encodes v as indented JSON or YAML depending on format.
func Marshal(v interface{}, format string) ([]byte, error) {
	if strings.EqualFold(format, "yaml") {
		return yaml.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
