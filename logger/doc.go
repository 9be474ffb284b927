// Package logger provides structured logging for rivet using zerolog.
//
// Loggers are scoped by component ("scheduler", "tool", "flows") and carry
// the build's domain fields: the step being run, the substep or checkpoint
// involved and the external tool's exit status.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("scheduler")
//	log.Info("step completed", logger.StepFields("decoder.syn", d))
package logger
