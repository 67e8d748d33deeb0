// Package config loads a qkernel.toml file into a sql.CompilationOptions,
// decoding it with github.com/BurntSushi/toml into a typed config struct
// rather than reading flags or environment variables directly.
package config
