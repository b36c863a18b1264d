package volumes

import "a3dup/internal/model"

// Lister enumerates candidate removable volumes for the host platform.
// An empty list means nothing qualified, never a failure; the caller falls
// back to manual path entry.
type Lister interface {
	List() []model.Volume
}

// Detect returns the enumerator for the current operating system.
func Detect() Lister {
	return newLister()
}
