// Package registry describes the model metadata consumed by the suggestion
// builder. Models are always handed over explicitly, either by a Provider that
// introspects a live system (GORM structs, database catalogs) or by an Adapter
// that turns a schema document (OpenAPI, YAML descriptors) into models. Nothing
// in this package reads global state.
package registry
