// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing. Every struct type is parsed
// once per prefix and cached; later Load calls copy the cached value.
//
//	var limits modelbind.Config
//	config.MustLoad(&limits)
//
//	var logCfg logger.Config
//	config.MustLoad(&logCfg, config.WithPrefix("FORMBIND_"))
//
// LoadEnv reads extra .env files before parsing. Values already present in
// the process environment win over file values.
//
// Errors can be compared with errors.Is against ErrParsingConfig,
// ErrInvalidConfigType and ErrNilPointer. Tests that change the environment
// call ResetCache or pass WithoutCache.
package config
