// Package requestid attaches a correlation ID to every HTTP request.
//
// Middleware reuses a client-supplied X-Request-ID header when it is short
// and made of letters, digits, '-' and '_'; otherwise it generates a UUIDv4.
// The ID is stored in the request context and echoed in the response header.
// Binding failures rendered by the handler package carry the same ID, and
// LoggerExtractor adds it to every log record written with the request
// context.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
