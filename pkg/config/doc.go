// Package config reads .razan configuration files.
//
// A .razan file holds assignments, optionally grouped under section
// headers:
//
//	# application settings
//	APP_NAME is "Razan";
//	PORT is 3000;
//
//	[database]
//	HOST is env("DB_HOST");
//	USER is toLowerCase("ADMIN");
//
// Each line is trimmed. Blank lines and lines starting with '#' are ignored.
// "[name]" starts a section, and redeclaring a section discards what it
// held. Every other line must have the form "KEY is VALUE;" where KEY is a
// run of word characters. Lines that fit neither shape are skipped without
// an error. Values are evaluated by package value.
//
// LoadConfiguration reads .razan from the working directory. Loader adds
// tracing and metrics, Watcher reloads on change, SchemaRegistry checks a
// Document against CUE schemas, Decode copies one into a struct and Export
// renders it as JSON, YAML or CUE.
package config
