// Package config loads, merges and validates the configuration of every
// go-church-sync binary.
//
// Values are collected from several sources and merged with mergo. A field
// keeps the value of the first source that sets it:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file (path from CONFIG, -c or -config)
//  4. Built-in defaults
//
// [GetStructuredConfig] returns the merged config; [GetClientConfig] and
// [GetServerConfig] derive and validate the per-binary views.
package config
