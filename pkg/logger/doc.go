// Package logger constructs slog loggers the way the rest of the service
// expects them: JSON output for production log aggregation, text output for
// development, and context extractors that pull request-scoped values (such
// as request IDs) into every record.
//
// Typical wiring:
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatJSON),
//		logger.WithLevel(slog.LevelInfo),
//		logger.WithAttr(slog.String("app", "callbackd")),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
// The attr helpers (Error, Component, State, ...) keep attribute keys
// consistent across packages.
package logger
