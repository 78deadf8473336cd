package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/extapi/packages/core/config"
)

// rememberFile records path as the last used .api file. Failures are only
// logged.
func rememberFile(path string) {
	statePath, err := config.StatePath()
	if err != nil {
		logger.WithError(err).Warn("cannot locate state file")
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	state, err := config.LoadState(statePath)
	if err != nil {
		logger.WithError(err).Warn("cannot read state file")
		state = &config.State{}
	}
	if state.LastAPIFile == path {
		return
	}
	state.LastAPIFile = path
	if err := state.Save(statePath); err != nil {
		logger.WithError(err).Warn("cannot save state file")
	}
}

// lastFile returns the last used .api file.
func lastFile() (string, error) {
	statePath, err := config.StatePath()
	if err != nil {
		return "", err
	}
	state, err := config.LoadState(statePath)
	if err != nil {
		return "", err
	}
	if state.LastAPIFile == "" {
		return "", usageError(fmt.Errorf("no .api file given and none used before"))
	}
	return state.LastAPIFile, nil
}

// historyPath resolves the history database location. Relative names live
// in the state directory.
func historyPath(override string) (string, error) {
	name := override
	if name == "" {
		name = appConfig.HistoryFile
	}
	if name == "" {
		name = config.DefaultHistoryFile
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "sqlite:") {
		return name, nil
	}
	dir, err := config.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
