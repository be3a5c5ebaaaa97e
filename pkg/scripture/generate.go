package scripture

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/verse"
)

const (
	opGenerate        = "generate-devotion"
	msgGenerateFailed = "Failed to generate devotion"
)

type generateResponse struct {
	envelope
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GenerateDevotion asks the service to write a devotion for the verse and
// mood. All three inputs are required and are checked before any request.
func (c *Client) GenerateDevotion(ctx context.Context, req verse.DevotionRequest) (verse.Devotion, error) {
	req = req.Normalize()
	if missing := req.Missing(); len(missing) > 0 {
		return verse.Devotion{}, perr.WithOp(
			perr.Validationf("Please provide %s before generating a devotion", strings.Join(missing, ", ")),
			opGenerate)
	}

	resp, err := c.do(ctx, opGenerate, http.MethodPost, c.endpoints.Generate, nil, req)
	if err != nil {
		return verse.Devotion{}, perr.WithOp(perr.Wrap(err, perr.KindGeneration, msgGenerateFailed), opGenerate)
	}

	var body generateResponse
	if jerr := json.Unmarshal(resp.body, &body); jerr != nil {
		return verse.Devotion{}, perr.WithOp(perr.New(perr.KindGeneration, msgGenerateFailed), opGenerate)
	}
	if !resp.ok() || body.failed() {
		return verse.Devotion{}, perr.WithOp(perr.New(perr.KindGeneration, orDefault(body.text(), msgGenerateFailed)), opGenerate)
	}

	d := verse.Devotion{
		Title: strings.TrimSpace(body.Title),
		Body:  strings.TrimSpace(body.Content),
	}
	if d.Title == "" || d.Body == "" {
		return verse.Devotion{}, perr.WithOp(perr.New(perr.KindGeneration, "The generated devotion was incomplete"), opGenerate)
	}
	return d, nil
}
