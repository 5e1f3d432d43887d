package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// resolvePipelinePath maps a bare pipeline name to <pipelines-dir>/<name>.yaml.
// A name that already contains a path separator or a .yaml/.yml suffix is
// used as-is, so `pipeforge run ./adhoc.yaml` still works outside the
// configured directory.
func resolvePipelinePath(flags *rootFlags, name string) string {
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return name
	}
	return filepath.Join(flags.pipelinesDir, name+".yaml")
}

// discoverPipelines globs every *.yaml/*.yml file under pipelines-dir and
// returns a name -> path map, the name being the file's base name without
// extension. Used by `run` and `validate` with no positional argument: `run`
// merges every pipeline in the directory into one (the CLI's merge-all
// mode), while `validate` checks each pipeline file in turn.
func discoverPipelines(pipelinesDir string) (map[string]string, error) {
	entries, err := os.ReadDir(pipelinesDir)
	if err != nil {
		return nil, fmt.Errorf("reading pipelines directory %q: %w", pipelinesDir, err)
	}

	paths := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		base := strings.TrimSuffix(name, ext)
		paths[base] = filepath.Join(pipelinesDir, name)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no pipeline definitions found under %q", pipelinesDir)
	}
	return paths, nil
}

// sortedNames returns m's keys sorted, for deterministic CLI output.
func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
