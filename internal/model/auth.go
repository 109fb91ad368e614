package model

// AccessToken is the object embedded in the JWT issued by this backend.
type AccessToken struct {
	ID       string `json:"id"`
	Fid      int64  `json:"fid"`
	Username string `json:"username"`
}

type LoginRequest struct {
	// IdentityToken is issued by the Farcaster mini-app host and verified
	// against the configured verification service.
	IdentityToken string `json:"identity_token"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
