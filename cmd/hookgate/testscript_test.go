package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"hookgate": mainFunc,
	})
}

// mainFunc wraps the CLI for testscript execution.
func mainFunc() {
	// Reset flags for each invocation (Cobra reuses the same command)
	hookType = ""
	debugMode = true
	traceMode = false
	versionRequested = false
	globalFlag = false
	forceFlag = false
	verboseFlag = false
	denied = false
	parsedCtx = nil

	os.Exit(mainWithExitCode())
}

// setupTestEnv points all state paths at the script work directory.
func setupTestEnv(env *testscript.Env) error {
	env.Setenv("HOME", env.WorkDir)
	env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
	env.Setenv("XDG_DATA_HOME", filepath.Join(env.WorkDir, ".local", "share"))
	env.Setenv("XDG_STATE_HOME", filepath.Join(env.WorkDir, ".local", "state"))

	return nil
}

func TestScriptDispatch(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata/scripts/dispatch",
		Setup: setupTestEnv,
	})
}

func TestScriptConfig(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata/scripts/config",
		Setup: setupTestEnv,
	})
}
