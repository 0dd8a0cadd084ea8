package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/afero"
)

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(fsys afero.Fs, src, dst string, mode fs.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// CopyFileVerified streams src to dst with SHA256 + size integrity
// verification and returns the number of bytes written. dst is created
// exclusively with the source's permission bits and is removed on any
// failure.
func CopyFileVerified(fsys afero.Fs, src, dst string) (written int64, err error) {
	srcInfo, err := fsys.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := fsys.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = out.Close()
		if err != nil {
			_ = fsys.Remove(dst)
		}
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err = io.Copy(multi, tee)
	if err != nil {
		return written, err
	}
	if err = out.Sync(); err != nil {
		return written, err
	}
	if err = out.Close(); err != nil {
		return written, err
	}

	if written != srcSize {
		return written, fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		return written, fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return written, nil
}

// PreserveMetadata copies permission bits and access/modification times
// from info onto path.
func PreserveMetadata(fsys afero.Fs, path string, info fs.FileInfo, accessed time.Time) error {
	if err := fsys.Chmod(path, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if accessed.IsZero() {
		accessed = info.ModTime()
	}
	if err := fsys.Chtimes(path, accessed, info.ModTime()); err != nil {
		return fmt.Errorf("chtimes: %w", err)
	}
	return nil
}
