package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/willibrandon/goslm/cmd/goslm/cli"
	"github.com/willibrandon/goslm/cmd/goslm/output"
)

const (
	webAPIID   = "0d5e9b1a-6c3f-4b5e-8a7d-2f1c3e4b5a61"
	testsID    = "9f8e7d6c-5b4a-4392-8170-6f5e4d3c2b1a"
	dataID     = "11111111-2222-4333-8444-555555555555"
	strangerID = "44444444-5555-4666-8777-888888888888"
)

const testSolution = `Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio Version 17
VisualStudioVersion = 17.8.34330.188
Project("{9A19103F-16F7-4668-BE54-9A1E7A4F7556}") = "WebApi", "src\WebApi\WebApi.csproj", "{0D5E9B1A-6C3F-4B5E-8A7D-2F1C3E4B5A61}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "tests", "tests", "{3C4D5E6F-7A8B-4C9D-8E0F-1A2B3C4D5E6F}"
EndProject
Project("{9A19103F-16F7-4668-BE54-9A1E7A4F7556}") = "WebApi.Tests", "tests\WebApi.Tests\WebApi.Tests.csproj", "{9F8E7D6C-5B4A-4392-8170-6F5E4D3C2B1A}"
EndProject
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "DataLayer", "src\DataLayer\DataLayer.csproj", "{11111111-2222-4333-8444-555555555555}"
EndProject
Global
	GlobalSection(NestedProjects) = preSolution
		{9F8E7D6C-5B4A-4392-8170-6F5E4D3C2B1A} = {3C4D5E6F-7A8B-4C9D-8E0F-1A2B3C4D5E6F}
	EndGlobalSection
EndGlobal
`

// testEnv is a temp directory holding App.sln, an empty config file and a
// settings database path, plus a console that records everything.
type testEnv struct {
	dir      string
	solution string
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	console  *output.Console
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	solutionPath := filepath.Join(dir, "App.sln")
	require.NoError(t, os.WriteFile(solutionPath, []byte(testSolution), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), nil, 0o644))

	env := &testEnv{
		dir:      dir,
		solution: solutionPath,
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
	}
	env.console = output.NewConsole(env.out, env.errOut, output.VerbosityNormal)
	env.console.SetColors(false)
	return env
}

// opts returns global options for backend with the output format set
func (e *testEnv) opts(backend, format string) *cli.GlobalOptions {
	return &cli.GlobalOptions{
		Solution:    e.solution,
		Backend:     backend,
		SettingsDSN: filepath.Join(e.dir, "data", "settings.db"),
		ConfigFile:  filepath.Join(e.dir, "config.yaml"),
		Verbosity:   "normal",
		Format:      format,
	}
}

// take returns and clears what the console printed to stdout
func (e *testEnv) take() string {
	s := e.out.String()
	e.out.Reset()
	return s
}
