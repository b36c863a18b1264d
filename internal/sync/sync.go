package sync

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"a3dup/internal/hash"
	"a3dup/internal/model"
)

// Result reports what a sync pass did to the target directory.
type Result struct {
	Placed  string   // final path of the firmware file
	Removed []string // stale firmware filenames deleted
	Digest  hash.Result
}

// SyncError wraps the step that failed while mutating the target directory.
// A partial failure may leave the directory with zero or extra firmware
// files; there is no rollback.
type SyncError struct {
	Step string
	Path string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Step, e.Path, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Apply removes stale firmware files from targetDir and places the staged
// binary there under filename, then verifies the placed copy against the
// staged source. Afterward the directory holds exactly one firmware file.
// Running Apply twice with the same release deletes nothing the second time
// and rewrites identical content.
func Apply(staged, targetDir, filename string) (Result, error) {
	var res Result

	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return res, &SyncError{Step: "read target", Path: targetDir, Err: err}
	}
	for _, e := range entries {
		if e.IsDir() || !model.IsFirmwareFile(e.Name()) || e.Name() == filename {
			continue
		}
		stale := filepath.Join(targetDir, e.Name())
		if err := os.Remove(stale); err != nil {
			return res, &SyncError{Step: "remove stale firmware", Path: stale, Err: err}
		}
		res.Removed = append(res.Removed, e.Name())
	}

	dst := filepath.Join(targetDir, filename)
	if err := copyAtomic(staged, dst); err != nil {
		return res, &SyncError{Step: "copy firmware", Path: dst, Err: err}
	}
	res.Placed = dst

	want, err := hash.Compute(staged)
	if err != nil {
		return res, &SyncError{Step: "hash staged", Path: staged, Err: err}
	}
	got, err := hash.Compute(dst)
	if err != nil {
		return res, &SyncError{Step: "hash copy", Path: dst, Err: err}
	}
	if got.Size != want.Size || got.SHA256 != want.SHA256 {
		return res, &SyncError{
			Step: "verify copy",
			Path: dst,
			Err: fmt.Errorf("digest mismatch: staged %s (%d bytes), copy %s (%d bytes)",
				want.SHA256, want.Size, got.SHA256, got.Size),
		}
	}
	res.Digest = got

	return res, nil
}

func copyAtomic(src, dst string) error {
	tmp := dst + ".tmp"

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(out, in)
	syncErr := out.Sync()
	closeErr := out.Close()

	if copyErr != nil {
		_ = os.Remove(tmp)
		return copyErr
	}
	if syncErr != nil {
		_ = os.Remove(tmp)
		return syncErr
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return closeErr
	}

	// rename over any same-named stale copy
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp->final: %w", err)
	}
	return nil
}
