package scripture

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	perr "tableflip.dev/devo/pkg/errors"
)

const (
	opContent        = "verse-content"
	msgContentFailed = "Failed to fetch verse content"
)

type contentResponse struct {
	envelope
	Content string `json:"content"`
}

// VerseContent looks up the scripture text for a free-typed reference. A blank
// reference yields "" without touching the network.
func (c *Client) VerseContent(ctx context.Context, reference string) (string, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return "", nil
	}

	q := url.Values{}
	q.Set("reference", reference)
	resp, err := c.do(ctx, opContent, http.MethodGet, c.endpoints.VerseContent, q, nil)
	if err != nil {
		return "", perr.WithOp(perr.Wrap(err, perr.KindFetch, msgContentFailed), opContent)
	}

	var body contentResponse
	if jerr := json.Unmarshal(resp.body, &body); jerr != nil {
		return "", perr.WithOp(perr.New(perr.KindFetch, msgContentFailed), opContent)
	}
	notFound := "No content found for " + reference
	if body.failed() {
		return "", perr.WithOp(perr.New(perr.KindNotFound, orDefault(body.text(), notFound)), opContent)
	}
	if !resp.ok() {
		return "", perr.WithOp(perr.New(perr.KindFetch, orDefault(body.text(), msgContentFailed)), opContent)
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		return "", perr.WithOp(perr.New(perr.KindNotFound, orDefault(body.text(), notFound)), opContent)
	}
	return content, nil
}
