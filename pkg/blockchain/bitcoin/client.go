package bitcoin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// Block is a mined bitcoin block as reported by an esplora-compatible API.
type Block struct {
	Height    int64  `json:"height"`
	Hash      string `json:"id"`
	TxCount   int    `json:"tx_count"`
	Timestamp int64  `json:"timestamp"`
}

type Client interface {
	TipHeight(ctx context.Context) (int64, error)
	BlockByHeight(ctx context.Context, height int64) (*Block, error)
}

type esploraClient struct {
	endpoints []string
}

func NewEsploraClient(endpoints []string) *esploraClient {
	return &esploraClient{endpoints: endpoints}
}

func (c *esploraClient) TipHeight(ctx context.Context) (int64, error) {
	body, err := c.call(ctx, "/blocks/tip/height")
	if err != nil {
		return 0, err
	}

	height, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tip height %q: %w", body, err)
	}

	return height, nil
}

func (c *esploraClient) BlockByHeight(ctx context.Context, height int64) (*Block, error) {
	// Esplora resolves a height to a hash first; block details are only
	// addressable by hash.
	body, err := c.call(ctx, fmt.Sprintf("/block-height/%d", height))
	if err != nil {
		return nil, err
	}

	hash := strings.TrimSpace(string(body))
	body, err = c.call(ctx, "/block/"+hash)
	if err != nil {
		return nil, err
	}

	var block Block
	if err := json.Unmarshal(body, &block); err != nil {
		return nil, fmt.Errorf("invalid block body of %s: %w", hash, err)
	}

	return &block, nil
}

func (c *esploraClient) call(ctx context.Context, path string) ([]byte, error) {
	perm := rand.Perm(len(c.endpoints))

	for _, index := range perm {
		url := c.endpoints[index] + path
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := xcontext.HTTPClient(ctx).Do(req)
		if err != nil {
			xcontext.Logger(ctx).Warnf("An error occured when calling to %s: %v", url, err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			xcontext.Logger(ctx).Warnf("An error occured when reading body of %s: %v", url, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			xcontext.Logger(ctx).Warnf("Got status %d from %s", resp.StatusCode, url)
			continue
		}

		return body, nil
	}

	return nil, errors.New("all endpoints got errors")
}
