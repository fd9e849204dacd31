package dom

import (
	"log"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

type declaration struct {
	property  string
	value     string
	important bool
}

// parseStyle reads an inline style attribute. Declarations after a syntax
// error are dropped.
func parseStyle(style string) []declaration {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil
	}
	// the last declaration is only closed by a semicolon
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	parsed, err := parser.ParseDeclarations(style)
	if err != nil {
		log.Printf("dom: invalid style %q: %v", style, err)
	}
	decls := make([]declaration, 0, len(parsed))
	for _, d := range parsed {
		property := strings.ToLower(d.Property)
		if property == "" {
			continue
		}
		decls = append(decls, declaration{property: property, value: d.Value, important: d.Important})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, (&css.Declaration{Property: d.property, Value: d.value, Important: d.important}).String())
	}
	return strings.Join(parts, " ")
}
