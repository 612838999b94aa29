package dgen

import (
	"strings"

	"github.com/tidwall/gjson"
)

const opaqueSkip = "!skip"

// Exceptions holds the D specific tables of exceptions.json.
type Exceptions struct {
	// Keywords are D reserved words; identifiers equal to one get a leading underscore.
	Keywords map[string]bool
	// Opaque maps the names of struct-qualified platform types to a replacement
	// declaration. "!skip" suppresses the declaration. Names not listed are
	// declared as "struct name;".
	Opaque map[string]string
	// ExtensionImports lists D modules publicly imported inside an extension's block.
	ExtensionImports map[string][]string
}

func ReadExceptionsFromJSON(exceptions gjson.Result) *Exceptions {
	rval := &Exceptions{
		Keywords:         make(map[string]bool),
		Opaque:           make(map[string]string),
		ExtensionImports: make(map[string][]string),
	}

	exceptions.Get("keyword").ForEach(func(_, val gjson.Result) bool {
		rval.Keywords[val.String()] = true
		return true
	})

	exceptions.Get("opaque").ForEach(func(key, val gjson.Result) bool {
		if strings.HasPrefix(key.String(), "!") {
			return true
		} // Ignore comments
		rval.Opaque[key.String()] = val.String()
		return true
	})

	exceptions.Get("extension").ForEach(func(key, exVal gjson.Result) bool {
		if strings.HasPrefix(key.String(), "!") {
			return true
		}
		exVal.Get("d:imports").ForEach(func(_, val gjson.Result) bool {
			rval.ExtensionImports[key.String()] = append(rval.ExtensionImports[key.String()], val.String())
			return true
		})
		return true
	})

	return rval
}

// RenameIdentifier prefixes s with an underscore when it is a D keyword.
func (e *Exceptions) RenameIdentifier(s string) string {
	if e.Keywords[s] {
		return "_" + s
	}
	return s
}
