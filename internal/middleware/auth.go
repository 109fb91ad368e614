package middleware

import (
	"context"
	"strings"

	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/router"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// WithAuthentication resolves the access token of the request, if any, and
// records the authenticated user in the context. It never rejects a
// request; pair it with Authenticate on routes that require a login.
func WithAuthentication() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := extractBearerToken(ctx)
		if token == "" {
			return nil, nil
		}

		accessToken, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

// Authenticate rejects anonymous requests.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return nil, nil
	}
}

func extractBearerToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	if token, found := strings.CutPrefix(authorization, "Bearer "); found {
		return token
	}

	// Websocket clients cannot set headers from the browser, so the token
	// is also accepted as a query parameter.
	return req.URL.Query().Get(xcontext.Configs(ctx).Auth.AccessToken.Name)
}
