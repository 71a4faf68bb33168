// Package sqlschema introspects live databases and exposes their tables as
// suggestion models. Each table becomes a model named after the table, each
// column a field. Column comments become help text where the database
// supports them (Postgres), primary and foreign key constraints are read from
// the catalog.
package sqlschema
