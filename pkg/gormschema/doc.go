// Package gormschema exposes GORM models as suggestion models. Structs are
// parsed with gorm.io/gorm/schema, so column names, primary keys and
// relationships follow the same rules GORM applies at runtime.
//
// Field labels come from a `suggest` struct tag:
//
//	Title string `suggest:"label:Title;help:Title of the book"`
//
// The GORM `comment` tag is used as help text when the suggest tag omits it,
// and `suggest:"-"` hides a column.
package gormschema
