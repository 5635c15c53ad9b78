package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// AppPaths locates configuration and log files of an application.
type AppPaths interface {
	ConfigDir() string
	LogDir() string
}

// DefaultAppPaths returns platform-dependent paths for the application
// identified by appTag.
func DefaultAppPaths(appTag string) (AppPaths, error) {
	a := appPaths{tag: appTag}
	home, err := os.UserHomeDir()
	if err != nil {
		return a, err
	}
	a.home = home
	return a, nil
}

type appPaths struct {
	tag  string
	home string
}

var _ AppPaths = appPaths{}

// userConfigFile returns the path of 'config.yaml' in the configuration
// directory, or "" if there is no such file.
func userConfigFile(paths AppPaths) string {
	if paths == nil || paths.ConfigDir() == "" {
		return ""
	}
	name := filepath.Join(paths.ConfigDir(), "config.yaml")
	if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return name
}
