// Package config reads application settings from a file, with environment
// variable overrides, and decodes subtrees into typed structs.
package config
