// Package suggest builds and queries suggestion dictionaries.
//
// A suggestion dictionary maps the human-readable label of a model field (its
// verbose name) to the attribute name a user should type plus the field's help
// text:
//
//	{"Title": {"value": "title", "help_text": "Title of the book"}}
//
// Builder produces a dictionary from explicit model descriptors, skipping
// excluded models, primary keys and foreign keys. Store, Tokenize and
// Store.Suggest reproduce the client-side lookup that consumes the dictionary:
// the text is split into tokens and each token is matched case-insensitively
// against dictionary keys, values and help texts.
package suggest
