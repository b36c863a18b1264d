package volumes

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"a3dup/internal/model"
)

// FAT-family filesystems are the usual SD card formats; ntfs covers larger
// cards formatted on Windows.
var removableFstypes = map[string]bool{
	"vfat":  true,
	"exfat": true,
	"msdos": true,
	"fat":   true,
	"fat32": true,
	"ntfs":  true,
	"ntfs3": true,
}

var removableRoots = []string{"/media/", "/run/media/", "/mnt/"}

// parseMounts filters a /proc/self/mounts style table down to plausible
// removable volumes: block devices with an SD-like filesystem or mounted
// under one of the usual removable roots. The filter is heuristic; the
// result is advisory and the user confirms the final choice.
func parseMounts(r io.Reader) []model.Volume {
	var vols []model.Volume
	seen := map[string]bool{}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		dev, mount, fstype := fields[0], fields[1], fields[2]

		if !strings.HasPrefix(dev, "/dev/") {
			continue
		}
		if !removableFstypes[strings.ToLower(fstype)] && !underRemovableRoot(mount) {
			continue
		}

		mount = unescapeMount(mount)
		if seen[mount] {
			continue
		}
		seen[mount] = true

		vols = append(vols, model.Volume{Path: mount, Label: filepath.Base(mount)})
	}
	return vols
}

func underRemovableRoot(mount string) bool {
	for _, root := range removableRoots {
		if strings.HasPrefix(mount, root) {
			return true
		}
	}
	return false
}

// the kernel escapes space, tab and backslash in mount paths as octal
var mountUnescaper = strings.NewReplacer(`\040`, " ", `\011`, "\t", `\134`, `\`)

func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return mountUnescaper.Replace(s)
}
