package fsutil

import (
	"crypto/md5" //nolint:gosec // md5 matches the .md5sum sidecar format, not a security boundary
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Md5SidecarSuffix is appended to an artifact path to name its checksum
// sidecar.
const Md5SidecarSuffix = ".md5sum"

// Md5File computes the hex md5 digest of the file contents.
func Md5File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := md5.New() //nolint:gosec
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ReadMd5Sidecar reads the digest stored in "<path>.md5sum". The sidecar
// follows the md5sum(1) format; only the first field is significant.
func ReadMd5Sidecar(path string) (string, error) {
	data, err := os.ReadFile(path + Md5SidecarSuffix)
	if err != nil {
		return "", err
	}
	sum, _, _ := strings.Cut(strings.TrimSpace(string(data)), " ")
	return sum, nil
}
