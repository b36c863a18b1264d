package selector

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"a3dup/internal/model"
)

// InvalidSelectionError indicates the chosen target cannot be used.
type InvalidSelectionError struct {
	Path   string
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid selection: %s", e.Reason)
	}
	return fmt.Sprintf("invalid target %q: %s", e.Path, e.Reason)
}

// Choose presents the enumerated volumes on out and reads a selection from
// in. Entry 0 switches to manual path entry; with no volumes at all it goes
// straight there. Unparseable or out-of-range numbers re-prompt.
func Choose(in io.Reader, out io.Writer, vols []model.Volume) (string, error) {
	sc := bufio.NewScanner(in)

	if len(vols) == 0 {
		fmt.Fprintln(out, "No removable drives detected automatically.")
		return readPath(sc, out)
	}

	fmt.Fprintln(out, "Found possible SD cards:")
	for i, v := range vols {
		fmt.Fprintf(out, "  %d) %s (%s free)\n", i+1, v.Path, humanize.IBytes(v.FreeBytes))
	}
	fmt.Fprintln(out, "  0) Enter path manually")

	for {
		fmt.Fprint(out, "\nSelect your SD card (number): ")
		if !sc.Scan() {
			return "", &InvalidSelectionError{Reason: "no selection made"}
		}
		choice := strings.TrimSpace(sc.Text())
		if choice == "0" {
			return readPath(sc, out)
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(vols) {
			fmt.Fprintln(out, "Invalid selection.")
			continue
		}
		return vols[n-1].Path, nil
	}
}

func readPath(sc *bufio.Scanner, out io.Writer) (string, error) {
	fmt.Fprint(out, `Enter full path to SD card root (e.g. E:\ or /Volumes/NO_NAME/): `)
	if !sc.Scan() {
		return "", &InvalidSelectionError{Reason: "no path entered"}
	}
	p := strings.TrimSpace(sc.Text())
	if p == "" {
		return "", &InvalidSelectionError{Reason: "empty path"}
	}
	return p, nil
}

// Resolve validates that path is an existing, writable directory and
// returns it unchanged. The writability probe is a temp file that is
// removed immediately; nothing else is touched.
func Resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &InvalidSelectionError{Path: path, Reason: "path does not exist"}
	}
	if !info.IsDir() {
		return "", &InvalidSelectionError{Path: path, Reason: "not a directory"}
	}

	probe, err := os.CreateTemp(path, ".a3dup-probe-*")
	if err != nil {
		return "", &InvalidSelectionError{Path: path, Reason: "not writable"}
	}
	probe.Close()
	os.Remove(probe.Name())

	return path, nil
}
