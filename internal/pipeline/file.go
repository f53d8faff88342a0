package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ConvertFile converts the PLY file at inPath into an OBJ file at outPath.
//
// The mesh is written to a temporary file next to outPath and renamed into
// place only after a successful run, so a failed or aborted conversion never
// leaves a truncated mesh behind.
func (c *Converter) ConvertFile(ctx context.Context, inPath, outPath string) (stats *Stats, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, &IOError{Op: "open", Path: inPath, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, &IOError{Op: "stat", Path: inPath, Err: err}
	}

	if !c.Overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return nil, &IOError{Op: "create", Path: outPath, Err: fs.ErrExist}
		}
	}

	dir := filepath.Dir(outPath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outPath)+".*.tmp")
	if err != nil {
		return nil, &IOError{Op: "create", Path: outPath, Err: err}
	}
	c.log.Debug("writing to temporary file", zap.String("path", tmp.Name()))

	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			err = multierr.Append(err, tmp.Close())
		}
		err = multierr.Append(err, os.Remove(tmp.Name()))
	}()

	stats, err = c.run(ctx, in, info.Size(), tmp)
	if err != nil {
		return nil, err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return nil, &IOError{Op: "chmod", Path: tmp.Name(), Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return nil, &IOError{Op: "sync", Path: tmp.Name(), Err: err}
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return nil, &IOError{Op: "close", Path: tmp.Name(), Err: err}
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return nil, &IOError{Op: "rename", Path: outPath, Err: fmt.Errorf("from %s: %w", tmp.Name(), err)}
	}

	c.log.Info("saved", zap.String("path", outPath))
	return stats, nil
}
