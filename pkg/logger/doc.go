// Package logger builds *slog.Logger instances with functional options and
// provides attribute helpers so session-related log lines share key names.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// handler in LogHandlerDecorator, which pulls request-scoped values (such as
// a request id) out of the context on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "sessiondemo"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.ErrorContext(ctx, "session save failed",
//	    logger.Component("session"),
//	    logger.SessionID(id),
//	    logger.Error(err),
//	)
//
// Error, SessionID and RequestID return an empty slog.Attr for nil or empty
// input; slog drops empty attributes, so callers need no nil checks.
package logger
