package volumes

import (
	"os"
	"path/filepath"

	"a3dup/internal/model"
)

type darwinLister struct {
	root string
}

func newLister() Lister {
	return darwinLister{root: "/Volumes"}
}

func (l darwinLister) List() []model.Volume {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil
	}

	var vols []model.Volume
	for _, e := range entries {
		p := filepath.Join(l.root, e.Name())

		// the boot volume appears here as a firmlink back to /
		if resolved, err := filepath.EvalSymlinks(p); err != nil || resolved == "/" {
			continue
		}
		if !isWritable(p) {
			continue
		}

		vols = append(vols, model.Volume{
			Path:      p,
			Label:     e.Name(),
			FreeBytes: freeBytes(p),
		})
	}
	return vols
}
