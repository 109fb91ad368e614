package farcaster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// Identity is the farcaster account a verified token belongs to.
type Identity struct {
	Fid         int64  `json:"fid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Verifier exchanges a client-side identity token for the farcaster account
// it was issued to.
type Verifier interface {
	Verify(ctx context.Context, identityToken string) (*Identity, error)
}

type httpVerifier struct {
	verifyURL string
}

func NewVerifier(verifyURL string) *httpVerifier {
	return &httpVerifier{verifyURL: verifyURL}
}

func (v *httpVerifier) Verify(ctx context.Context, identityToken string) (*Identity, error) {
	body, err := json.Marshal(map[string]string{"token": identityToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, v.verifyURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	resp, err := xcontext.HTTPClient(ctx).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify token got status %d", resp.StatusCode)
	}

	var identity Identity
	if err := json.Unmarshal(respBody, &identity); err != nil {
		return nil, err
	}

	if identity.Fid == 0 {
		return nil, fmt.Errorf("verify token returned no fid")
	}

	return &identity, nil
}
