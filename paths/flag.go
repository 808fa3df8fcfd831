package paths

import (
	"flag"
)

// SetupDirFlag creates a new string flag with the passed name, defaulting
// to the first existing directory among Dirs("", dirName). If none exists,
// the flag defaults to dirName.
func SetupDirFlag(dirName, flagName string, flagPtr *string) {
	def := FindDir(Dirs("", dirName))
	if def == "" {
		def = dirName
	}
	flag.StringVar(flagPtr, flagName, def, "Directory holding "+dirName+" files")
}
