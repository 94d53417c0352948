// Package config holds the initialization parameters for observable
// collections and binding engines.
//
// Configs are used only during construction and then turned into options:
// observer names are strings resolved through the observability registry, so
// a config file can select "slog" or a custom observer without code changes.
//
// Example YAML:
//
//	collection:
//	  report_clear_as_remove: true
//	  observer: slog
//	binding:
//	  fail_on_replication_error: false
//	  observer: slog
//
// Loading merges the file over DefaultConfig:
//
//	cfg, err := config.Load("observable.yaml")
//	list := observable.NewList[string](observable.FromConfig(cfg.Collection))
package config
