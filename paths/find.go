// Package paths locates the support files of the tools: mapping
// configuration, reference images and the like.
package paths

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// Dirs returns the directories searched for support files kept in a
// directory called name, in order: dir itself when set, name under the
// working directory, and name next to the executable.
func Dirs(dir, name string) []string {
	var dirs []string
	if dir != "" {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, name)
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), name))
	}
	return dirs
}

// Find returns the path of the first dir/fileName that exists, or an empty
// string.
//
// For example, for "eyes.png" in Dirs("", "images") it may return
// "images/eyes.png".
func Find(fileName string, dirs []string) string {
	for _, dir := range dirs {
		path := filepath.Join(dir, fileName)
		if _, err := os.Stat(path); err == nil {
			glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// FindDir returns the first of dirs that is an existing directory, or an
// empty string.
func FindDir(dirs []string) string {
	for _, dir := range dirs {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}
	return ""
}
