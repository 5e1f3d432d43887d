package config

import (
	"fmt"
	"regexp"
)

var entryKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_./:\-]+$`)

// Document is the full on-disk shape of a layered Pipeforge configuration
// file (§6): a catalog section (entry declarations), a pipelines section
// (named, node-wired pipelines), a metadata section (diagram export
// settings), and a logging section. Every layer (base, environment, local
// overrides) decodes into the same Document shape before being merged with
// dario.cat/mergo in precedence order, mirroring the teacher's single
// top-level Config struct in internal/config/types.go.
type Document struct {
	Version  string           `yaml:"version" validate:"required,semver"`
	Catalog  CatalogSection   `yaml:"catalog,omitempty"`
	Pipelines []PipelineSection `yaml:"pipelines,omitempty" validate:"omitempty,dive"`
	Metadata MetadataSection  `yaml:"metadata,omitempty"`
	Logging  LoggingSection   `yaml:"logging,omitempty"`
}

// CatalogSection declares the entries available to every pipeline, each as
// a (type, constructor args) pair per spec §6's "catalog (type + constructor
// args)" description.
type CatalogSection struct {
	Entries []EntrySection `yaml:"entries,omitempty" validate:"omitempty,dive"`
}

// EntrySection names one catalog entry: its accessor name, its entry type as
// registered in the entry Registry (e.g. "csv:raw_review"), its stable key, and
// whatever constructor args that backend requires (path, read_only, ...).
type EntrySection struct {
	Name string                 `yaml:"name" validate:"required,entry_name"`
	Type string                 `yaml:"type" validate:"required"`
	Key  string                 `yaml:"key" validate:"required,entry_key"`
	Args map[string]interface{} `yaml:"args,omitempty"`
}

// PipelineSection declares one named pipeline: its node list plus optional
// description, tags, and validation overrides, per spec §6's "pipelines
// (per-pipeline type/factory/parameters/description/tags/validation)".
type PipelineSection struct {
	Name        string           `yaml:"name" validate:"required,node_name"`
	Description string           `yaml:"description,omitempty"`
	Tags        []string         `yaml:"tags,omitempty"`
	Validation  ValidationSection `yaml:"validation,omitempty"`
	Nodes       []NodeSection    `yaml:"nodes" validate:"required,min=1,dive"`
}

// ValidationSection holds per-entry inspection-level overrides for a
// pipeline. The loader decodes it but does not apply it: LoadPipeline does
// not copy it into RunOptions.ValidationOverrides, so it has no effect on
// which level an entry is inspected at.
type ValidationSection struct {
	Overrides map[string]string `yaml:"overrides,omitempty"`
}

// NodeSection wires one node into a pipeline: its registered type name, its
// input/output entry accessor names (resolved against the catalog), and any
// constant parameters passed to the node after construction.
//
// Input/Output cover the common single-entry-in, single-entry-out case.
// Inputs/Outputs are for node types the loader wires specially because one
// accessor name isn't enough to describe their I/O: "join" reads two
// entries (Inputs[0] = companies, Inputs[1] = reviews) and "split" writes
// two (Outputs[0] = train, Outputs[1] = test), per the loader's node-type
// switch (the JoinInput and SplitSink doc comments in internal/nodes say why
// these two aren't expressed through catalog.CatalogMap instead).
type NodeSection struct {
	Name     string                 `yaml:"name" validate:"required,node_name"`
	Type     string                 `yaml:"type" validate:"required"`
	Input    string                 `yaml:"input,omitempty" validate:"omitempty,entry_name"`
	Output   string                 `yaml:"output,omitempty" validate:"omitempty,entry_name"`
	Inputs   []string               `yaml:"inputs,omitempty" validate:"omitempty,dive,entry_name"`
	Outputs  []string               `yaml:"outputs,omitempty" validate:"omitempty,dive,entry_name"`
	Seed     int64                  `yaml:"seed,omitempty"`
	TestSize float64                `yaml:"test_size,omitempty"`
	Params   map[string]interface{} `yaml:"params,omitempty"`
}

// MetadataSection configures DAG export output, per spec §6's "metadata
// (output directory, enabled providers)". The core only produces DagExport;
// providers that consume this section live outside this package.
type MetadataSection struct {
	OutputDir string   `yaml:"output_dir,omitempty"`
	Providers []string `yaml:"providers,omitempty"`
}

// LoggingSection declares a minimum level plus per-category overrides, per
// spec §6's "logging (min level, per-category overrides)". It is decoded and
// validated but nothing reads it: the CLI's logger takes its level from
// PIPEFORGE_LOG_LEVEL and --verbose.
type LoggingSection struct {
	Level     string            `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Human     bool              `yaml:"human,omitempty"`
	Overrides map[string]string `yaml:"overrides,omitempty"`
}

func (d *Document) String() string {
	return fmt.Sprintf("Document{version=%s, entries=%d, pipelines=%d}", d.Version, len(d.Catalog.Entries), len(d.Pipelines))
}
