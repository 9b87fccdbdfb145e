package version

import (
	"runtime/debug"
)

// Version is the tern release.
const Version = "0.1.0"

// Revision searches the buildinfo built into the binary to find and return
// the git revision, if present. Returns an empty string otherwise.
func Revision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for i := range bi.Settings {
		if bi.Settings[i].Key == "vcs.revision" {
			return bi.Settings[i].Value
		}
	}
	return ""
}

// String is the line printed by "tern version". Binaries built without VCS
// information don't get an empty pair of parens.
func String() string {
	rev := Revision()
	if rev == "" {
		return "tern " + Version
	}
	if len(rev) > 8 {
		rev = rev[:8]
	}
	return "tern " + Version + " (" + rev + ")"
}
