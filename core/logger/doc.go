// Package logger provides slog construction and nil-safe attribute helpers.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("stovectl"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("owned games page fetched",
//		logger.Component("games"),
//		logger.Page(2),
//		logger.Count("records", 30),
//	)
//
// # Attribute Helpers
//
// Helpers that take optional values return an empty slog.Attr when the value
// is absent, and slog drops empty attributes:
//
//	log.Warn("store details failed", logger.ProductNo(n), logger.Error(err))
//
// Library components never log to stdout on their own. They default to
// Discard and accept a logger through their With...Logger options.
package logger
