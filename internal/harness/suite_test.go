package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", "nested/c.YAML"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	paths, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.YAML"),
	}, paths)
}

func TestFindScenarios_MissingDir(t *testing.T) {
	_, err := FindScenarios(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "scan scenarios")
}

func TestRunSuite(t *testing.T) {
	paths, err := FindScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	broken := writeScenario(t, "name: broken\n")
	failing := writeScenario(t, `name: failing
description: expects the wrong outcome
project:
  rigs: [{id: hero}]
  tracks:
    - name: Base
      rig: hero
      clips:
        - name: walk
          duration: 1
          curves:
            - {path: Hips, target: transform, property: localPosition.x, keys: [{time: 0, value: 0}, {time: 1, value: 1}]}
assertions:
  - type: success
    expect: false
`)

	result := RunSuite(append(paths, broken, failing))
	assert.Equal(t, len(paths)+2, result.Total)
	assert.Equal(t, len(paths), result.Passed)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Failures, 2)

	assert.Equal(t, broken, result.Failures[0].ScenarioPath)
	assert.Contains(t, result.Failures[0].Error, "failed to load scenario")
	assert.Equal(t, failing, result.Failures[1].ScenarioPath)
	assert.Contains(t, result.Failures[1].Error, "scenario assertions failed")
}
