// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Env files (.env, .envtemplate) are loaded into the process environment first, so
// EMAIL and PASSWORD can live next to the binary instead of in the YAML file.
package config
