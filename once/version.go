package once

// Version information for the staticonce runtime.
const (
	// Version is the current version of the staticonce runtime.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides information about the staticonce runtime.
type Info struct {
	// Version is the runtime version string.
	Version string

	// Guard describes the duplicate-initialization guard in effect.
	Guard string
}

// GetInfo returns information about the staticonce runtime.
//
// Example:
//
//	info := once.GetInfo()
//	fmt.Printf("staticonce %s (%s)\n", info.Version, info.Guard)
func GetInfo() Info {
	return Info{
		Version: Version,
		Guard:   "one-shot CAS on init path, branch-free reads",
	}
}
