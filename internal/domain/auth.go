package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/farcaster"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

type AuthDomain interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

type authDomain struct {
	userRepo repository.UserRepository
	verifier farcaster.Verifier
}

func NewAuthDomain(userRepo repository.UserRepository, verifier farcaster.Verifier) *authDomain {
	return &authDomain{
		userRepo: userRepo,
		verifier: verifier,
	}
}

// Login exchanges a farcaster identity token for an access token, creating
// the user on first sight.
func (d *authDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	if req.IdentityToken == "" {
		return nil, errorx.New(errorx.BadRequest, "Require identity token")
	}

	identity, err := d.verifier.Verify(ctx, req.IdentityToken)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot verify identity token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid identity token")
	}

	user, err := d.userRepo.GetByFid(ctx, identity.Fid)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		user = &entity.User{
			Base:        entity.Base{ID: uuid.NewString()},
			Fid:         identity.Fid,
			Username:    identity.Username,
			DisplayName: identity.DisplayName,
			AvatarURL:   identity.AvatarURL,
			Role:        entity.RoleUser,
		}

		if err := d.userRepo.Create(ctx, user); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
			return nil, errorx.Unknown
		}
	} else if user.Username != identity.Username ||
		user.DisplayName != identity.DisplayName ||
		user.AvatarURL != identity.AvatarURL {
		// Profile data follows the farcaster account.
		err := d.userRepo.UpdateByID(ctx, user.ID, &entity.User{
			Username:    identity.Username,
			DisplayName: identity.DisplayName,
			AvatarURL:   identity.AvatarURL,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
			return nil, errorx.Unknown
		}

		user.Username = identity.Username
		user.DisplayName = identity.DisplayName
		user.AvatarURL = identity.AvatarURL
	}

	token, err := xcontext.TokenEngine(ctx).Generate(user.ID, model.AccessToken{
		ID:       user.ID,
		Fid:      user.Fid,
		Username: user.Username,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{
		AccessToken: token,
		User:        convertUser(user),
	}, nil
}
