package web

import (
	"context"
	"net/http"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx so the
// committed import batch records who submitted it.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClient(ctx, clientIP(r), r.UserAgent())
}
