// Package utils hosts the ConfigurationLoader and LoggerFactory shared by the
// CLI: Viper-backed layered configuration and zap loggers whose diagnostics
// stay on standard error.
package utils
