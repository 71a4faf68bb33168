// Package template defines the template engine seam used by text renderers.
// The pongo subpackage provides the pongo2-backed implementation.
package template
