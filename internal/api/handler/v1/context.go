package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/puntoventa/pos-api/internal/api/middleware"
)

// actorID returns the authenticated user id from the request context, or
// nil for anonymous requests.
func actorID(ctx *gin.Context) *uint {
	v, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return nil
	}

	id, ok := v.(uint)
	if !ok || id == 0 {
		return nil
	}

	return &id
}

// uintParam parses a positive integer path parameter.
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}

// intQuery parses an integer query parameter, falling back to def on a
// missing or unparseable value.
func intQuery(ctx *gin.Context, name string, def int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return n
}
