// Package logger builds *slog.Logger values with functional options and
// supplies attribute helpers so binding failures, request IDs and component
// names are logged under consistent keys.
//
// New picks slog.NewTextHandler or slog.NewJSONHandler from the configured
// Format. When context extractors are registered it wraps the handler in
// LogHandlerDecorator, which runs them before the record reaches the
// underlying handler and skips keys the record already carries.
//
// # Usage
//
//	import "github.com/dmitrymomot/webkit/pkg/logger"
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//
//	log := logger.New(
//	    logger.WithConfig(cfg),
//	    logger.WithService("formbind"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.WarnContext(ctx, "binding failed",
//	    logger.Field("Users[0].Age"),
//	    logger.Error(err),
//	)
//
// # Configuration
//
//   - WithConfig applies LOG_LEVEL and LOG_FORMAT loaded into Config.
//   - WithFormat, WithTextFormatter and WithJSONFormatter override the format.
//   - WithLevel sets a custom slog.Level.
//   - WithAttr and WithService attach static attributes.
//   - WithContextExtractors and WithContextValue inject attributes from context.
//
// Error, Errors, RequestID and Field return an empty slog.Attr for nil or
// empty input, which slog skips, so callers do not need a nil check:
//
//	log.Info("bound", logger.Error(err))
package logger
