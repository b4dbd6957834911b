package core

import "context"

type contextKey string

const suppressProgressKey contextKey = "suppressProgress"

// WithSuppressProgress disables per-record progress lines for batch runs
// started under the returned context. Used by embedding callers such as the
// MCP server, where stdout carries protocol frames.
func WithSuppressProgress(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressProgressKey, true)
}

func shouldSuppressProgress(ctx context.Context) bool {
	val := ctx.Value(suppressProgressKey)
	if val == nil {
		return false
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
