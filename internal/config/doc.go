// Package config holds the workflow's immutable, process-wide string-keyed
// configuration map (spec.md §3, "Workflow Config"), populated once at load
// time from the workflow YAML's top-level `config` key and never mutated
// once the run starts.
package config
