package server

import (
	"context"

	"github.com/gin-gonic/gin"
)

type pipelineBaseKey struct{}

// withPipelineBase records ctx as the parent of every pipeline started by a
// request whose context derives from the returned one.
func withPipelineBase(ctx context.Context) context.Context {
	return context.WithValue(ctx, pipelineBaseKey{}, ctx)
}

// jobContext is the context a pipeline started by c runs under. A client
// disconnect does not cancel it. Cancelling the server's base context does.
func jobContext(c *gin.Context) context.Context {
	req := c.Request.Context()
	if base, ok := req.Value(pipelineBaseKey{}).(context.Context); ok {
		return base
	}
	return context.WithoutCancel(req)
}
