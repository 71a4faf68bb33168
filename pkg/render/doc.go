// Package render defines the renderer contract used to serialise suggestion
// dictionaries (JSON, YAML, the client script) and a registry to look
// renderers up by name.
package render
