// Package logging builds the logrus logger shared by the CLI and the HTTP
// server.
//
// The level and formatter come from the "log" section of the configuration:
//
//	log:
//	  level: debug   # trace, debug, info, warn, error
//	  format: json   # text (default) or json
//
// Loggers write to stderr unless Options.Output says otherwise, so stdout
// stays reserved for command output such as `qv levels --json`.
package logging
