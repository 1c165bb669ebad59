package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// sapiClient signs and sends requests to Binance wallet endpoints that go-binance does not cover.
type sapiClient struct {
	baseURL    string
	apiKey     string
	secret     []byte
	httpClient *http.Client
}

type sapiError struct {
	StatusCode int
	Body       string
}

func (e *sapiError) Error() string {
	if e.StatusCode == http.StatusUnauthorized {
		return "binance API rejected credentials, verify API key/secret and IP whitelist"
	}
	return fmt.Sprintf("binance API error %d: %s", e.StatusCode, e.Body)
}

func (c *sapiClient) do(ctx context.Context, method, path string, params url.Values, out any) error {
	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	query.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	encoded := query.Encode()
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	signature := hex.EncodeToString(mac.Sum(nil))

	fullURL := fmt.Sprintf("%s%s?%s&signature=%s", c.baseURL, path, encoded, signature)
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return errors.Wrap(err, "build binance request")
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s response", path)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &sapiError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}
