package flows

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// StripModules removes the definitions of the named modules from Verilog
// source so a parent can be synthesized against its children's ILMs.
func StripModules(src []byte, modules []string) []byte {
	for _, m := range modules {
		re := regexp.MustCompile(`(?s)\bmodule\s+` + regexp.QuoteMeta(m) + `\b.*?\bendmodule\b`)
		src = re.ReplaceAll(src, nil)
	}
	return src
}

// strippedName is the file StripModules output for source is written to.
func strippedName(source string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return stem + "_no_submodules.v"
}

func stripFile(source string, modules []string) func() ([]byte, error) {
	return func() ([]byte, error) {
		src, err := os.ReadFile(source)
		if err != nil {
			return nil, err
		}
		return StripModules(src, modules), nil
	}
}
