// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallConfig = `
seed: 11
data: {n: 150}
em: {maxIterations: 40, standardErrors: false}
mcmc: {chains: 2, samples: 40, burnIn: 10}
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallConfig), 0o600))

	return path
}

// execute runs the CLI with args and decodes the JSON record it prints.
func execute(t *testing.T, args ...string) (Record, map[string]any) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), errOut.String())

	var rec Record
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	_, err := uuid.Parse(rec.RunID)
	require.NoError(t, err)
	data, _ := rec.Data.(map[string]any)

	return rec, data
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"simulate", "em", "mcmc", "run", "table"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestSimulateThenFit(t *testing.T) {
	cfg := writeConfig(t)
	dataPath := filepath.Join(t.TempDir(), "data.json")

	rec, data := execute(t, "simulate", "-c", cfg, "-o", dataPath)
	assert.Equal(t, "simulate", rec.Command)
	assert.EqualValues(t, 150, data["n"])

	ds, err := readDataset(dataPath)
	require.NoError(t, err)
	assert.Equal(t, 150, ds.N())
	assert.Len(t, ds.True, 150)

	rec, data = execute(t, "em", "-c", cfg, "-d", dataPath)
	assert.Equal(t, "em", rec.Command)
	assert.Len(t, data["estimates"], ds.Layout().Dim())
	assert.Contains(t, []any{"converged", "max-iterations"}, data["state"])

	rec, data = execute(t, "mcmc", "-c", cfg, "-d", dataPath, "--draws")
	assert.Equal(t, "mcmc", rec.Command)
	assert.EqualValues(t, 2*30, data["draws"])
	assert.Len(t, data["samples"], 60)
	assert.Len(t, data["naive"], 2)
}

func TestRunCommand(t *testing.T) {
	_, data := execute(t, "run", "-c", writeConfig(t))
	require.Contains(t, data, "em")
	require.Contains(t, data, "mcmc")
	post := data["mcmc"].(map[string]any)["posterior"].([]any)
	assert.Len(t, post, 14)
}

func TestTableCommand(t *testing.T) {
	cfg := writeConfig(t)
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"table", "-c", cfg, "--stage", "2"})
	require.NoError(t, cmd.Execute())
	var rec struct {
		Data []tableRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Len(t, rec.Data, 150*8)

	cmd = NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"table", "-c", cfg, "--stage", "3"})
	assert.Error(t, cmd.Execute())
}

func TestMissingConfig(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"em", "-c", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorIs(t, cmd.Execute(), os.ErrNotExist)
}
