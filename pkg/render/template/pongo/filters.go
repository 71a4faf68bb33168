package pongo

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/flosch/pongo2/v6"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("tojson") {
		_ = pongo2.RegisterFilter("tojson", filterToJSON)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterToJSON encodes the input as JSON and marks it safe. encoding/json
// escapes <, > and & so the output can be embedded in a script element. A
// string parameter is used as indentation.
func filterToJSON(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if param != nil && param.IsString() && param.String() != "" {
		enc.SetIndent("", param.String())
	}
	if err := enc.Encode(in.Interface()); err != nil {
		return nil, &pongo2.Error{Sender: "filter:tojson", OrigError: err}
	}
	return pongo2.AsSafeValue(strings.TrimRight(buf.String(), "\n")), nil
}
