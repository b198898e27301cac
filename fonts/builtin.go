package fonts

import (
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	BuiltinFamily     = "Go"
	BuiltinMonoFamily = "Go Mono"

	builtinPrefix = "builtin:"
)

var builtins = map[string][]byte{
	"Go-Regular":    goregular.TTF,
	"Go-Bold":       gobold.TTF,
	"Go-Italic":     goitalic.TTF,
	"Go-BoldItalic": gobolditalic.TTF,
	"Go-Medium":     gomedium.TTF,
	"Go-Mono":       gomono.TTF,
}

// Builtin returns a table with the Go fonts compiled into the binary.
func Builtin() *Table {
	t := NewTable()
	t.Add(BuiltinFamily, "Regular", builtinPrefix+"Go-Regular")
	t.Add(BuiltinFamily, "Bold", builtinPrefix+"Go-Bold")
	t.Add(BuiltinFamily, "Italic", builtinPrefix+"Go-Italic")
	t.Add(BuiltinFamily, "Bold Italic", builtinPrefix+"Go-BoldItalic")
	t.Add(BuiltinFamily, "Medium", builtinPrefix+"Go-Medium")
	t.Add(BuiltinMonoFamily, "Regular", builtinPrefix+"Go-Mono")
	return t
}

func builtinData(path string) ([]byte, bool) {
	if !strings.HasPrefix(path, builtinPrefix) {
		return nil, false
	}
	data, ok := builtins[strings.TrimPrefix(path, builtinPrefix)]
	return data, ok
}
