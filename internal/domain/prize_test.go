package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinblocks/backend/internal/common"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/testutil"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func newTestPrizeDomain() (*prizeDomain, *testutil.MockPublisher) {
	publisher := &testutil.MockPublisher{}
	d := NewPrizeDomain(
		repository.NewPrizeConfigRepository(),
		common.NewGlobalRoleVerifier(repository.NewUserRepository()),
		publisher,
	)

	return d, publisher
}

func Test_prizeDomain_Set(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, publisher := newTestPrizeDomain()

	userCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := d.Set(userCtx, &model.SetPrizeConfigRequest{Currency: "SATS", Amount: 5000})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
	_, err = d.Set(adminCtx, &model.SetPrizeConfigRequest{Amount: 5000})
	require.Equal(t, errorx.New(errorx.BadRequest, "Require currency"), err)

	_, err = d.Set(adminCtx, &model.SetPrizeConfigRequest{Currency: "SATS"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Require a positive amount"), err)

	// The fixture config is version 1; a new config bumps the version.
	resp, err := d.Set(adminCtx, &model.SetPrizeConfigRequest{
		Currency: "SATS",
		Amount:   5000,
		Payouts:  map[string]any{"1": 5000},
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Config.Version)
	require.Len(t, publisher.Packs(), 1)
}

func Test_prizeDomain_Get(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, _ := newTestPrizeDomain()

	resp, err := d.Get(ctx, &model.GetPrizeConfigRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Config.Version)
	require.Equal(t, "SATS", resp.Config.Currency)

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
	_, err = d.Set(adminCtx, &model.SetPrizeConfigRequest{Currency: "BTC", Amount: 1})
	require.NoError(t, err)

	// Get always returns the highest version.
	resp, err = d.Get(ctx, &model.GetPrizeConfigRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Config.Version)
	require.Equal(t, "BTC", resp.Config.Currency)
}
