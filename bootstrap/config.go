package bootstrap

import (
	"github.com/kbukum/rivet/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig satisfies it through
// promoted methods; config.RunConfig is the one rivet uses.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
