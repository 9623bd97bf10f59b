package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(ctx context.Context) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/jobs", nil).WithContext(ctx)
	return c
}

func TestJobContextOutlivesRequest(t *testing.T) {
	reqCtx, cancel := context.WithCancel(context.Background())
	c := testContext(reqCtx)
	cancel()
	assert.NoError(t, jobContext(c).Err())
}

func TestJobContextFollowsServerBase(t *testing.T) {
	serverCtx, stop := context.WithCancel(context.Background())
	reqCtx, cancelReq := context.WithCancel(withPipelineBase(serverCtx))
	c := testContext(reqCtx)

	cancelReq()
	jc := jobContext(c)
	assert.NoError(t, jc.Err())

	stop()
	assert.ErrorIs(t, jc.Err(), context.Canceled)
}
