// Package logger provides structured logging for restkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with map-based structured fields. Request and
// trace identifiers stored in a context are attached by WithContext.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("rest")
//	log.Info("item created", logger.Fields("id", 42))
package logger
