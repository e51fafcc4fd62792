package mediator

import (
	"context"
	"time"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
)

// LoggingMiddleware logs every request with its duration and outcome
func LoggingMiddleware(logger common.Logger) Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		if logger == nil {
			return next(ctx, request)
		}
		ctx = common.WithLogger(ctx, logger)

		name := RequestName(request)
		start := time.Now()
		response, err := next(ctx, request)
		metadata := map[string]interface{}{
			"request":     name,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			metadata["error"] = err.Error()
			logger.Log("ERROR", "request failed", metadata)
			return response, err
		}
		logger.Log("DEBUG", "request handled", metadata)
		return response, nil
	}
}
