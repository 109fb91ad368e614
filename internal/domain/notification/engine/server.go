package engine

import (
	"context"
	"encoding/json"

	"github.com/puzpuzpuz/xsync"

	"github.com/bitcoinblocks/backend/internal/domain/notification/directive"
	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// EngineServer fans events out to every connected proxy. Proxies register
// for the channels their clients follow; Emit broadcasts an event to the
// processor of its channel.
type EngineServer struct {
	processors *xsync.MapOf[string, *ChannelProcessor]
}

func NewEngineServer() *EngineServer {
	return &EngineServer{
		processors: xsync.NewMapOf[*ChannelProcessor](),
	}
}

func (s *EngineServer) GetChannelProcessor(channel string, createIfNotExist bool) *ChannelProcessor {
	if processor, ok := s.processors.Load(channel); ok {
		return processor
	}

	if !createIfNotExist {
		return nil
	}

	processor, _ := s.processors.LoadOrStore(channel, NewChannelProcessor(channel))
	return processor
}

// Emit broadcasts the event to every proxy registered to its channel.
func (s *EngineServer) Emit(_ context.Context, ev *event.EventRequest) error {
	processor := s.GetChannelProcessor(ev.Metadata.Channel, false)
	if processor != nil {
		processor.Broadcast(ev)
	}

	return nil
}

func (s *EngineServer) ServeProxy(
	ctx context.Context, _ *model.ServeNotificationEngineRequest,
) (*model.ServeNotificationEngineResponse, error) {
	proxySession := NewProxySession()
	defer proxySession.Leave()

	wsClient := xcontext.WSClient(ctx)
	for {
		select {
		case req, ok := <-wsClient.R:
			if !ok {
				return nil, errorx.Unknown
			}

			var d directive.ServerDirective
			if err := json.Unmarshal(req, &d); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot unmarshal directive: %v", err)
				return nil, errorx.Unknown
			}

			switch d.Op {
			case directive.EngineRegisterChannelDirectiveOp:
				var registerDirective directive.EngineRegisterChannelDirective
				if err := json.Unmarshal(d.Data, &registerDirective); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot unmarshal register channel data: %v", err)
					return nil, errorx.Unknown
				}

				processor := s.GetChannelProcessor(registerDirective.Channel, true)
				proxySession.RegisterChannel(processor)

				xcontext.Logger(ctx).Infof("Proxy %s registered to channel %s",
					proxySession.id, registerDirective.Channel)

			case directive.EngineUnregisterChannelDirectiveOp:
				var unregisterDirective directive.EngineUnregisterChannelDirective
				if err := json.Unmarshal(d.Data, &unregisterDirective); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot unmarshal unregister channel data: %v", err)
					return nil, errorx.Unknown
				}

				processor := s.GetChannelProcessor(unregisterDirective.Channel, false)
				proxySession.UnregisterChannel(processor)

				xcontext.Logger(ctx).Infof("Proxy %s unregistered from channel %s",
					proxySession.id, unregisterDirective.Channel)
			}

		case ev, ok := <-proxySession.C:
			if !ok {
				return nil, errorx.Unknown
			}

			b, err := json.Marshal(ev)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot marshal event: %v", err)
				return nil, errorx.Unknown
			}

			if err := wsClient.Write(b, true); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot write to ws: %v", err)
				return nil, errorx.Unknown
			}
		}
	}
}
