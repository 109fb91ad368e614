package authenticator_test

import (
	"testing"
	"time"

	"github.com/bitcoinblocks/backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[string]("secret", time.Minute)
	token, err := engine.Generate("", "abc")
	require.Nil(t, err)

	msg, err := engine.Verify(token)
	require.Nil(t, err)
	require.Equal(t, msg, "abc")
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[string]("secret", -time.Minute)
	token, err := engine.Generate("", "abc")
	require.Nil(t, err)

	_, err = engine.Verify(token)
	require.NotNil(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	engine := authenticator.NewTokenEngine[string]("secret", time.Minute)
	token, err := engine.Generate("", "abc")
	require.Nil(t, err)

	verifier := authenticator.NewTokenEngine[string]("not secret", time.Minute)
	_, err = verifier.Verify(token)
	require.NotNil(t, err)
}

func TestJWTDiffType(t *testing.T) {
	engine := authenticator.NewTokenEngine[string]("secret", time.Minute)
	token, err := engine.Generate("", "abc")
	require.Nil(t, err)

	verifier := authenticator.NewTokenEngine[int]("secret", time.Minute)
	_, err = verifier.Verify(token)
	require.NotNil(t, err)
}
