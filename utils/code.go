package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path"
	"strings"

	"github.com/google/uuid"
)

var codeSpace = big.NewInt(1_000_000)

// GenVerificationCode returns a uniformly random 6-digit code; leading zeros are kept.
func GenVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// NewObjectName returns a random object name under prefix that keeps the file extension.
func NewObjectName(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(SanitizeFilename(filename)))
	if len(ext) > 10 {
		ext = ""
	}
	return strings.TrimRight(prefix, "/") + "/" + uuid.NewString() + ext
}

// SanitizeFilename removes characters that can break headers or object paths.
func SanitizeFilename(name string) string {
	clean := strings.TrimSpace(name)
	clean = strings.ReplaceAll(clean, "\\", "/")
	clean = path.Base(clean)
	clean = strings.ReplaceAll(clean, "\r", "")
	clean = strings.ReplaceAll(clean, "\n", "")
	clean = strings.ReplaceAll(clean, "\"", "")
	if clean == "" || clean == "." || clean == "/" {
		return "upload"
	}
	return clean
}
