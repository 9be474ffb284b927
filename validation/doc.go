// Package validation checks run configuration and module descriptions
// before any tool is launched.
//
// Struct tags are evaluated with go-playground/validator; the package adds
// an "identifier" tag for module and substep names. Programmatic checks
// collect every problem before failing.
//
// # Struct Tag Validation
//
//	type NodeConfig struct {
//	    Start string `validate:"omitempty,identifier"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Identifier("nodes", module).Unique("hooks", names)
//	err := v.Validate()
package validation
