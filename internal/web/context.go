package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/residuos/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for history records.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClient(ctx, clientIP(r), r.UserAgent())
}
