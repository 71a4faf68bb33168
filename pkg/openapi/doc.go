// Package openapi exposes the public contracts for reading models out of
// OpenAPI documents. Every entry under components.schemas becomes a model and
// its properties become fields. Implementations live under internal/openapi to
// keep kin-openapi dependencies hidden from consumers.
//
// Property metadata maps onto suggestion fields as follows:
//
//   - x-verbose-name, then title, then the labelled property name: verbose name
//   - description: help text
//   - x-primary-key: true, or a property named "id": primary key
//   - x-relationships (belongsTo/hasOne), x-foreign-key: true,
//     format: foreign-key, or a $ref to another object: foreign key
//
// Array properties whose items reference another schema describe reverse
// relations and are not emitted.
package openapi
