package proxy

import (
	"context"
	"encoding/json"

	"github.com/bitcoinblocks/backend/internal/domain/notification/directive"
	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

type ProxyServer struct {
	router *Router
}

func NewProxyServer(ctx context.Context) *ProxyServer {
	return &ProxyServer{router: NewRouter(ctx)}
}

// ServeClient subscribes a websocket client to every game channel and
// forwards events until the connection drops. Each connection numbers its
// events with a local sequence so the client can detect gaps.
func (server *ProxyServer) ServeClient(
	ctx context.Context, _ *model.ServeNotificationProxyRequest,
) (*model.ServeNotificationProxyResponse, error) {
	session := NewSession()
	defer session.LeaveAllHubs()

	for _, channel := range event.GameChannels {
		hub, err := server.router.GetHub(ctx, channel)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get hub of %s: %v", channel, err)
			return nil, errorx.Unknown
		}

		session.JoinHub(hub)
	}

	wsClient := xcontext.WSClient(ctx)
	var seq int64
	for {
		select {
		case ev, ok := <-session.C:
			if !ok {
				return nil, errorx.New(errorx.Unavailable, "Session is closed")
			}

			b, err := json.Marshal(event.Format(ev, seq))
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot marshal event: %v", err)
				continue
			}

			seq++
			if err := wsClient.Write(b, false); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot send event to client: %v", err)
				return nil, errorx.Unknown
			}

		case req, ok := <-wsClient.R:
			if !ok {
				return nil, errorx.Unknown
			}

			var d directive.ServerDirective
			if err := json.Unmarshal(req, &d); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot unmarshal directive: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Invalid directive")
			}

			switch d.Op {
			case directive.ProxyPingDirectiveOp:
			}
		}
	}
}
