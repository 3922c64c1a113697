package morph

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "querycanon/internal/platform/errors"
	"querycanon/internal/platform/logger"
)

const (
	defaultRemoteTimeout = 3 * time.Second
	defaultMaxRetry      = 3
	defaultRetryBase     = 100 * time.Millisecond
	maxRetryWait         = 5 * time.Second
)

// RemoteOptions configures Remote
type RemoteOptions struct {
	URL      string // base url of the analyzer, POST {URL}/tokenize
	Timeout  time.Duration
	MaxRunes int

	// Retry config for transport errors and transient status codes.
	// MaxRetries 0 picks the default, a negative value disables retries
	MaxRetries int
	RetryBase  time.Duration
}

// Remote segments text with an analyzer sidecar (a Kiwi style tokenizer behind HTTP).
// Offsets in the response are rune offsets; a gap between tokens means whitespace
type Remote struct {
	http *http.Client
	opts RemoteOptions
	log  logger.Logger
}

type tokenizeRequest struct {
	Text string `json:"text"`
}

type tokenizeResponse struct {
	Tokens []struct {
		Form  string `json:"form"`
		Tag   string `json:"tag"`
		Start int    `json:"start"`
		Len   int    `json:"len"`
	} `json:"tokens"`
}

// NewRemote creates a Remote with defaults filled in
func NewRemote(o RemoteOptions) *Remote {
	o.URL = strings.TrimRight(o.URL, "/")
	if o.Timeout <= 0 {
		o.Timeout = defaultRemoteTimeout
	}
	if o.MaxRunes <= 0 {
		o.MaxRunes = DefaultMaxRunes
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Remote{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("morph"),
	}
}

// Segment implements Segmenter
func (c *Remote) Segment(ctx context.Context, text string) ([]Token, error) {
	if err := validate(text, c.opts.MaxRunes); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	body, err := json.Marshal(tokenizeRequest{Text: text})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode tokenize request")
	}

	raw, err := c.do(ctx, body)
	if err != nil {
		return nil, err
	}

	var res tokenizeResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "analyzer returned malformed json")
	}
	toks := make([]Token, 0, len(res.Tokens))
	prevEnd := 0
	for i, t := range res.Tokens {
		toks = append(toks, Token{Form: t.Form, Tag: Tag(t.Tag), Space: i > 0 && t.Start > prevEnd})
		prevEnd = t.Start + t.Len
	}
	return toks, nil
}

// do posts body with retries on transport errors, 429 and 502/503/504
func (c *Remote) do(ctx context.Context, body []byte) ([]byte, error) {
	url := c.opts.URL + "/tokenize"
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "analyzer new request failed")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt >= c.opts.MaxRetries {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "analyzer request failed")
			}
			if werr := c.wait(ctx, attempt, "transport error"); werr != nil {
				return nil, werr
			}
			continue
		}

		payload, rerr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = resp.Body.Close()
		c.log.Debug().
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Dur("latency", time.Since(start)).
			Msg("analyzer response")

		switch resp.StatusCode {
		case http.StatusOK:
			if rerr != nil {
				return nil, perr.Wrap(rerr, perr.ErrorCodeUnavailable, "analyzer response read failed")
			}
			return payload, nil
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "analyzer rejected text: %s", tail(payload))
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			if attempt >= c.opts.MaxRetries {
				code := perr.ErrorCodeUnavailable
				if resp.StatusCode == http.StatusTooManyRequests {
					code = perr.ErrorCodeTooManyRequests
				}
				return nil, perr.Newf(code, "analyzer status %d after %d attempts", resp.StatusCode, attempt+1)
			}
			if werr := c.wait(ctx, attempt, "transient status"); werr != nil {
				return nil, werr
			}
		default:
			return nil, perr.Newf(perr.ErrorCodeUnknown, "analyzer unexpected status %d body %s", resp.StatusCode, tail(payload))
		}
	}
}

func (c *Remote) wait(ctx context.Context, attempt int, why string) error {
	d := c.opts.RetryBase << uint(attempt)
	if d > maxRetryWait {
		d = maxRetryWait
	}
	c.log.Warn().Dur("retry_in", d).Int("attempt", attempt).Msg("analyzer " + why + " retrying")
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func tail(b []byte) string {
	if len(b) > 256 {
		b = b[:256]
	}
	return strings.TrimSpace(string(b))
}
