// Package config loads, templates, and validates the incant configuration
// file.
//
// A configuration file declares a fleet of instances under a top-level
// "instances" mapping. Files ending in .tmpl are rendered with text/template
// before parsing. Validation turns the raw document into a slice of
// [InstanceConfig] values in declared order; all structural errors are
// reported as [ConfigurationError] before any instance operation runs.
package config
