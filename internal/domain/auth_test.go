package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/farcaster"
	"github.com/bitcoinblocks/backend/pkg/testutil"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

type mockVerifier struct {
	identity *farcaster.Identity
	err      error
}

func (m *mockVerifier) Verify(ctx context.Context, identityToken string) (*farcaster.Identity, error) {
	return m.identity, m.err
}

func Test_authDomain_Login(t *testing.T) {
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()

	verifier := &mockVerifier{
		identity: &farcaster.Identity{
			Fid:         12345,
			Username:    "satoshi",
			DisplayName: "Satoshi",
			AvatarURL:   "https://example.com/avatar.png",
		},
	}
	d := NewAuthDomain(userRepo, verifier)

	_, err := d.Login(ctx, &model.LoginRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Require identity token"), err)

	// First login creates the user.
	resp, err := d.Login(ctx, &model.LoginRequest{IdentityToken: "token"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, int64(12345), resp.User.Fid)
	require.Equal(t, "satoshi", resp.User.Username)

	user, err := userRepo.GetByFid(ctx, 12345)
	require.NoError(t, err)
	require.Equal(t, "Satoshi", user.DisplayName)

	// The issued token is verifiable and carries the user identity.
	accessToken, err := xcontext.TokenEngine(ctx).Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, accessToken.ID)
	require.Equal(t, int64(12345), accessToken.Fid)

	// A later login with a changed profile syncs the stored user.
	verifier.identity.DisplayName = "Satoshi Nakamoto"
	resp2, err := d.Login(ctx, &model.LoginRequest{IdentityToken: "token"})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, resp2.User.ID)
	require.Equal(t, "Satoshi Nakamoto", resp2.User.DisplayName)

	user, err = userRepo.GetByFid(ctx, 12345)
	require.NoError(t, err)
	require.Equal(t, "Satoshi Nakamoto", user.DisplayName)
}

func Test_authDomain_Login_invalidToken(t *testing.T) {
	ctx := testutil.MockContext()

	d := NewAuthDomain(
		repository.NewUserRepository(),
		&mockVerifier{err: errors.New("verification failed")},
	)

	_, err := d.Login(ctx, &model.LoginRequest{IdentityToken: "bad-token"})
	require.Equal(t, errorx.New(errorx.Unauthenticated, "Invalid identity token"), err)
}
