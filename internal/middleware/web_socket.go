package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/router"
	"github.com/bitcoinblocks/backend/pkg/ws"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// WebSocket upgrades the request and stores the wrapped connection in the
// context for the handler.
func WebSocket() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		conn, err := upgrader.Upgrade(xcontext.HTTPWriter(ctx), xcontext.HTTPRequest(ctx), nil)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot upgrade connection: %v", err)
			return nil, errorx.Unknown
		}

		return xcontext.WithWSClient(ctx, ws.NewClient(conn)), nil
	}
}
