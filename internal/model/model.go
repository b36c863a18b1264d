package model

import "strings"

// Release identifies the firmware binary currently published by the vendor.
type Release struct {
	URL      string
	Filename string
}

// Volume is a candidate removable mount. The list is advisory only; the
// user confirms the final choice.
type Volume struct {
	Path      string
	Label     string
	FreeBytes uint64
}

const (
	firmwarePrefix = "a3d_os_"
	firmwareSuffix = ".bin"
)

// IsFirmwareFile reports whether name follows the vendor's firmware naming
// convention, a3d_os_<version>.bin.
func IsFirmwareFile(name string) bool {
	return len(name) > len(firmwarePrefix)+len(firmwareSuffix) &&
		strings.HasPrefix(name, firmwarePrefix) &&
		strings.HasSuffix(name, firmwareSuffix)
}
