// Package descriptor reads model descriptors from YAML or JSON documents:
//
//	models:
//	  - name: Book
//	    primary_key: isbn
//	    fields:
//	      - name: title
//	        verbose_name: Title
//	        help_text: Title of the book
//	        type: string
//	      - name: author
//	        type: foreignKey
//	        target: Author
//
// Descriptors are the simplest way to feed the suggestion builder when models
// are not available as OpenAPI, GORM structs, or a live database.
package descriptor
