package export

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
)

// writeFileAtomic replaces target with data via a temp file in the same directory.
func writeFileAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fsError(err, "failed to create output directory", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fsError(err, "failed to create temp file", target)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fsError(err, "failed to write output file", target)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fsError(err, "failed to close output file", target)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fsError(err, "failed to set output file mode", target)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return fsError(err, "failed to move output file into place", target)
	}
	return nil
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func fsError(err error, msg, path string) error {
	return ferrors.FileSystemError(msg).
		WithCause(err).
		WithContext(logfields.KeyPath, path).
		Build()
}
