package referral

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/darkbrewery/simo-server/pkg/metrics"
)

const (
	lookupEndpointName = "lookup"

	metricsStructName = "referral.client"
)

var (
	ErrReferrerNotFound = errors.New("referrer not found")
)

// Client resolves referral codes against the off-chain lookup service. The
// service is an opaque mapping; no referral relationship is derived or
// validated on this side of the boundary.
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

// NewClient returns a new referral lookup client. baseUrl must include a
// trailing slash.
func NewClient(baseUrl string) *Client {
	return &Client{
		baseUrl:    baseUrl,
		httpClient: http.DefaultClient,
	}
}

type jsonLookupResponse struct {
	Success        bool   `json:"success"`
	ReferrerWallet string `json:"referrerWallet"`
}

// GetReferrer resolves a referral code, or a wallet address when walking up
// the chain, to the owning referrer's wallet.
func (c *Client) GetReferrer(ctx context.Context, codeOrWallet string) (common.PublicKey, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetReferrer")
	defer tracer.End()

	endpoint := fmt.Sprintf(
		"%s%s?code=%s",
		c.baseUrl,
		lookupEndpointName,
		url.QueryEscape(codeOrWallet),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		tracer.OnError(err)
		return common.PublicKey{}, errors.Wrap(err, "error creating http request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		tracer.OnError(err)
		return common.PublicKey{}, errors.Wrap(err, "error executing http request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		tracer.OnError(err)
		return common.PublicKey{}, errors.Wrap(err, "error reading response body")
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("received http status %d: %s", resp.StatusCode, string(respBody))
		tracer.OnError(err)
		return common.PublicKey{}, err
	}

	var parsed jsonLookupResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		tracer.OnError(err)
		return common.PublicKey{}, errors.Wrap(err, "error unmarshalling json response")
	}

	if !parsed.Success {
		return common.PublicKey{}, ErrReferrerNotFound
	}

	decoded, err := base58.Decode(parsed.ReferrerWallet)
	if err != nil {
		tracer.OnError(err)
		return common.PublicKey{}, errors.Wrap(err, "error decoding referrer wallet")
	}
	if len(decoded) != common.PublicKeyLength {
		err = errors.Errorf("invalid referrer wallet length: %d", len(decoded))
		tracer.OnError(err)
		return common.PublicKey{}, err
	}

	return common.PublicKeyFromBytes(decoded), nil
}
