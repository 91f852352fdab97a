// Package assets copies auxiliary directories into the generated site.
// Copying is best effort: failures are logged and skipped, never fatal.
package assets

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Dirs are the auxiliary source subdirectories copied into the destination.
var Dirs = []string{"assets", "media"}

// Copy copies each auxiliary directory from sourceDir into destDir. Each
// attempt is independent; a missing directory or copy failure is logged as
// a warning and the directory is skipped.
func Copy(sourceDir, destDir string) {
	for _, name := range Dirs {
		src := filepath.Join(sourceDir, name)
		dst := filepath.Join(destDir, name)
		if err := CopyDir(src, dst); err != nil {
			slog.Warn("Asset copy skipped", "dir", name, "error", err)
			continue
		}
		slog.Debug("Assets copied", "dir", name)
	}
}

// CopyDir recursively copies a directory tree.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode())
}
