// Package config loads client configuration from an optional YAML file,
// environment variables and built-in defaults, in that order of increasing
// precedence for the environment and decreasing for the file.
//
// Every knob has a working default so the client runs with no file and no
// environment at all, pointing at a local development server.
package config
