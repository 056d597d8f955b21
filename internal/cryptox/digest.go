// Package cryptox computes content digests of stored files.
//
// The upload session hashes every chunk as it is written, so the digest of a
// completed file is known without reading it back. The digest is recorded in
// the upload journal and attached to mirrored objects.
package cryptox

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// DigestAlgorithm names the digest in metadata and journal rows.
const DigestAlgorithm = "blake2b-256"

// NewDigest returns an unkeyed BLAKE2b-256 hash.
func NewDigest() hash.Hash {
	// New256 only fails for keys longer than 64 bytes
	h, _ := blake2b.New256(nil)
	return h
}

// HexSum returns the lowercase hex encoding of h's current sum.
func HexSum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// FileDigest hashes the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := NewDigest()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest %q: %w", path, err)
	}
	return HexSum(h), nil
}
