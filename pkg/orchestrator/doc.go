// Package orchestrator wires the load → models → build → render pipeline
// behind a single entry point. Models come from a registry.Provider or from a
// document resolved through a registry.Adapter; the suggestion dictionary is
// built with pkg/suggest and serialised by a renderer from pkg/render.
package orchestrator
