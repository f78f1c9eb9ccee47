package generator

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// ChecksumFile computes the SHA256 checksum of a file on disk
// The result matches Summary.Checksum for a file written by GenerateFile
func ChecksumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for checksum: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to read file for checksum: %w", err)
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
