package fileutil

import (
	"io"

	"github.com/spf13/afero"

	"github.com/thoreinstein/attest/internal/errors"
)

// DefaultMaxFileSize bounds ReadFile when no limit is configured (1 MiB).
const DefaultMaxFileSize int64 = 1 << 20

// ErrFileTooLarge indicates a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ReadFile reads path from fs, failing with ErrFileTooLarge once more than
// limit bytes are seen. A limit of zero or less means DefaultMaxFileSize.
func ReadFile(fs afero.Fs, path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Fail fast when the size is already known to be too large
	if info, err := f.Stat(); err == nil {
		if info.IsDir() {
			return nil, errors.Newf("%s is a directory", path)
		}
		if info.Size() > limit {
			return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit %d", path, info.Size(), limit)
		}
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s exceeds %d bytes", path, limit)
	}
	return data, nil
}
