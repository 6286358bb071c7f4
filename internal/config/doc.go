// Package config loads reactor CLI settings.
//
// Settings come from, in increasing priority: built-in defaults, an
// optional YAML/JSON/TOML file, REACTOR_* environment variables, and
// command-line flags.
//
// # File Structure
//
//	log:
//	  level: info        # debug, info, warn, error
//	  format: text       # text, json
//	runtime:
//	  flush_budget: 10000  # 0 disables the limit
//	demo:
//	  initial_length: 3
//	  static_elements: 5
//	  progress_max: 100
//	inspect:
//	  addr: 127.0.0.1:7070
//	  history: 128
//	metrics:
//	  namespace: reactor
//
// Nested keys map to environment variables with dots replaced by
// underscores: runtime.flush_budget is REACTOR_RUNTIME_FLUSH_BUDGET.
package config
