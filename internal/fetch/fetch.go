package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"a3dup/internal/model"
)

const userAgent = "a3dup/1.0"

// Progress receives byte counts as the transfer advances. total is the
// server-announced length, or -1 when unknown.
type Progress func(done, total int64)

// StatusError indicates the binary URL served a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// TransferError indicates the download failed mid-stream. No staged file is
// left behind.
type TransferError struct {
	URL string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Download streams the release binary into stageDir and returns the staged
// path. The body goes through a .tmp file with sync+rename, so a failed
// transfer never leaves a usable-looking staged file; a stale staged file of
// the same name is overwritten.
func Download(ctx context.Context, client *http.Client, rel model.Release, stageDir string, progress Progress) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rel.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &TransferError{URL: rel.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: rel.URL, Code: resp.StatusCode}
	}

	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(stageDir, rel.Filename)
	tmp := dst + ".tmp"

	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}

	cw := &countingWriter{total: resp.ContentLength, progress: progress}
	_, copyErr := io.Copy(io.MultiWriter(out, cw), resp.Body)
	syncErr := out.Sync()
	closeErr := out.Close()

	if copyErr != nil {
		_ = os.Remove(tmp)
		return "", &TransferError{URL: rel.URL, Err: copyErr}
	}
	if syncErr != nil {
		_ = os.Remove(tmp)
		return "", syncErr
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return "", closeErr
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename tmp->staged: %w", err)
	}
	return dst, nil
}

type countingWriter struct {
	done     int64
	total    int64
	progress Progress
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.done += int64(len(p))
	if w.progress != nil {
		w.progress(w.done, w.total)
	}
	return len(p), nil
}
