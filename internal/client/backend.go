package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/pkg/errorx"
)

// Backend is the write/query side of the server as the game client sees
// it. Methods return the server-confirmed record so the caller can
// reconcile it against the optimistic placeholder.
type Backend interface {
	Login(ctx context.Context, identityToken string) (*model.LoginResponse, error)
	GetCurrentRound(ctx context.Context) (*model.Round, error)
	GetRounds(ctx context.Context, offset, limit int) ([]model.Round, error)
	GetGuesses(ctx context.Context, roundID string) ([]model.Guess, error)
	GetMessages(ctx context.Context, limit int) ([]model.ChatMessage, error)
	GetPrizeConfig(ctx context.Context) (*model.PrizeConfig, error)
	GetLeaderboard(ctx context.Context, offset, limit int) ([]model.LeaderboardEntry, error)
	SubmitGuess(ctx context.Context, roundID string, value int) (*model.Guess, error)
	SendMessage(ctx context.Context, roundID, text string) (*model.ChatMessage, error)
}

type httpBackend struct {
	baseURL     string
	httpClient  *http.Client
	accessToken string
}

func NewHTTPBackend(baseURL string, httpClient *http.Client) *httpBackend {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &httpBackend{baseURL: baseURL, httpClient: httpClient}
}

func (b *httpBackend) SetAccessToken(token string) {
	b.accessToken = token
}

func (b *httpBackend) Login(ctx context.Context, identityToken string) (*model.LoginResponse, error) {
	resp := model.LoginResponse{}
	err := b.post(ctx, "/login", model.LoginRequest{IdentityToken: identityToken}, &resp)
	if err != nil {
		return nil, err
	}

	b.accessToken = resp.AccessToken
	return &resp, nil
}

func (b *httpBackend) GetCurrentRound(ctx context.Context) (*model.Round, error) {
	resp := model.GetCurrentRoundResponse{}
	if err := b.get(ctx, "/getCurrentRound", nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Round, nil
}

func (b *httpBackend) GetRounds(ctx context.Context, offset, limit int) ([]model.Round, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	resp := model.GetRoundsResponse{}
	if err := b.get(ctx, "/getRounds", query, &resp); err != nil {
		return nil, err
	}

	return resp.Rounds, nil
}

func (b *httpBackend) GetGuesses(ctx context.Context, roundID string) ([]model.Guess, error) {
	query := url.Values{}
	query.Set("round_id", roundID)

	resp := model.GetGuessesResponse{}
	if err := b.get(ctx, "/getGuesses", query, &resp); err != nil {
		return nil, err
	}

	return resp.Guesses, nil
}

func (b *httpBackend) GetMessages(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	resp := model.GetMessagesResponse{}
	if err := b.get(ctx, "/getMessages", query, &resp); err != nil {
		return nil, err
	}

	return resp.Messages, nil
}

func (b *httpBackend) GetPrizeConfig(ctx context.Context) (*model.PrizeConfig, error) {
	resp := model.GetPrizeConfigResponse{}
	if err := b.get(ctx, "/getPrizeConfig", nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Config, nil
}

func (b *httpBackend) GetLeaderboard(ctx context.Context, offset, limit int) ([]model.LeaderboardEntry, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	resp := model.GetLeaderboardResponse{}
	if err := b.get(ctx, "/getLeaderboard", query, &resp); err != nil {
		return nil, err
	}

	return resp.Entries, nil
}

func (b *httpBackend) SubmitGuess(ctx context.Context, roundID string, value int) (*model.Guess, error) {
	resp := model.SubmitGuessResponse{}
	err := b.post(ctx, "/submitGuess", model.SubmitGuessRequest{RoundID: roundID, Value: value}, &resp)
	if err != nil {
		return nil, err
	}

	return &resp.Guess, nil
}

func (b *httpBackend) SendMessage(ctx context.Context, roundID, text string) (*model.ChatMessage, error) {
	resp := model.SendMessageResponse{}
	err := b.post(ctx, "/sendMessage", model.SendMessageRequest{RoundID: roundID, Text: text}, &resp)
	if err != nil {
		return nil, err
	}

	return &resp.Message, nil
}

func (b *httpBackend) get(ctx context.Context, path string, query url.Values, out any) error {
	return b.call(ctx, http.MethodGet, path, query, nil, out)
}

func (b *httpBackend) post(ctx context.Context, path string, body, out any) error {
	return b.call(ctx, http.MethodPost, path, nil, body, out)
}

func (b *httpBackend) call(
	ctx context.Context, method, path string, query url.Values, body, out any,
) error {
	fullURL := b.baseURL + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}

		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if b.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.accessToken)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	envelope := struct {
		Code  int64           `json:"code"`
		Error string          `json:"error"`
		Data  json.RawMessage `json:"data"`
	}{}

	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("invalid response of %s: %w", path, err)
	}

	if envelope.Code != 0 {
		return errorx.New(errorx.Code(envelope.Code), "%s", envelope.Error)
	}

	if out != nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}

	return nil
}
