package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := c.Request.Context()
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithTokenEngine(ctx, router.tokenEngine)
		ctx = xcontext.WithHTTPRequest(ctx, c.Request)
		ctx = xcontext.WithHTTPWriter(ctx, c.Writer)
		if router.db != nil {
			ctx = xcontext.WithDB(ctx, router.db)
		}
		if router.snowFlake != nil {
			ctx = xcontext.WithSnowFlake(ctx, router.snowFlake)
		}

		var handlerErr error
		defer func() {
			for _, closer := range router.closers {
				closer(ctx, handlerErr, time.Since(start))
			}
		}()

		for _, middleware := range router.befores {
			newCtx, err := middleware(ctx)
			if err != nil {
				handlerErr = err
				c.JSON(http.StatusOK, newErrorResponse(err))
				return
			}

			// Middlewares which do not touch the context return nil.
			if newCtx != nil {
				ctx = newCtx
			}
		}

		var req Request
		var bindErr error
		switch method {
		case http.MethodGet:
			bindErr = c.ShouldBindQuery(&req)
		default:
			if c.Request.ContentLength > 0 {
				bindErr = c.ShouldBindJSON(&req)
			}
		}

		if bindErr != nil {
			handlerErr = errorx.New(errorx.BadRequest, "Cannot bind the request")
			c.JSON(http.StatusOK, newErrorResponse(handlerErr))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			handlerErr = err
			c.JSON(http.StatusOK, newErrorResponse(err))
			return
		}

		// Websocket handlers hijack the connection and return a nil
		// response; nothing more to write in that case.
		if resp != nil {
			c.JSON(http.StatusOK, newResponse(resp))
		}
	}
}
