package lang

import (
	"github.com/smacker/go-tree-sitter/cpp"
)

func init() {
	Languages["cpp"] = &Language{
		Name:       "cpp",
		Extensions: []string{".cpp", ".cc", ".cxx", ".c++", ".h", ".hh", ".hpp", ".hxx"},
		lang:       cpp.GetLanguage(),
	}
}
