package volumes

import (
	"fmt"

	"golang.org/x/sys/windows"

	"a3dup/internal/model"
)

type windowsLister struct{}

func newLister() Lister {
	return windowsLister{}
}

func (windowsLister) List() []model.Volume {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil
	}

	var vols []model.Volume
	for i := 0; i < 26; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		root := fmt.Sprintf(`%c:\`, 'A'+i)
		rootPtr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}
		if windows.GetDriveType(rootPtr) != windows.DRIVE_REMOVABLE {
			continue
		}

		var avail, total, free uint64
		_ = windows.GetDiskFreeSpaceEx(rootPtr, &avail, &total, &free)

		vols = append(vols, model.Volume{
			Path:      root,
			Label:     volumeLabel(rootPtr, root),
			FreeBytes: avail,
		})
	}
	return vols
}

func volumeLabel(rootPtr *uint16, fallback string) string {
	var name [windows.MAX_PATH + 1]uint16
	err := windows.GetVolumeInformation(rootPtr, &name[0], uint32(len(name)), nil, nil, nil, nil, 0)
	if err != nil || name[0] == 0 {
		return fallback
	}
	return windows.UTF16ToString(name[:])
}
