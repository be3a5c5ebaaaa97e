package scripture

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/verse"
)

const (
	opSuggest          = "suggest"
	msgSuggestFailed   = "Failed to fetch verse suggestions"
	msgSuggestBadShape = "Invalid response format from suggestion service"
)

type suggestRequest struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

// wrappedSuggestions is the `{success, verses}` response shape.
type wrappedSuggestions struct {
	envelope
	Verses json.RawMessage `json:"verses"`
}

// Suggest posts mood and the desired count and returns the valid suggestions
// in server order. The service may answer with a bare list or with a
// {success, verses} object; any other shape is a Format error. Invalid items
// are dropped, never fatal.
func (c *Client) Suggest(ctx context.Context, mood string, count int) (verse.List, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, perr.WithOp(perr.Validationf("Please choose a mood"), opSuggest)
	}
	if count <= 0 {
		count = 1
	}

	resp, err := c.do(ctx, opSuggest, http.MethodPost, c.endpoints.Suggest, nil, suggestRequest{Mood: mood, Count: count})
	if err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.KindFetch, msgSuggestFailed), opSuggest)
	}
	if !resp.ok() || !isJSON(resp.body) {
		msg := orDefault(payloadMessage(resp.body), msgSuggestFailed)
		return nil, perr.WithOp(perr.New(perr.KindFetch, msg), opSuggest)
	}

	list, err := decodeSuggestions(resp.body)
	if err != nil {
		return nil, perr.WithOp(err, opSuggest)
	}
	c.log.Debug().Str("mood", mood).Int("count", count).Int("valid", list.Len()).Msg("suggestions decoded")
	return list, nil
}

// decodeSuggestions normalises the heterogeneous suggestion payloads.
func decodeSuggestions(body []byte) (verse.List, error) {
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, perr.Wrap(err, perr.KindFormat, msgSuggestBadShape)
		}
		return verse.Decode(items), nil

	case len(trimmed) > 0 && trimmed[0] == '{':
		var wrapped wrappedSuggestions
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, perr.Wrap(err, perr.KindFormat, msgSuggestBadShape)
		}
		if wrapped.failed() {
			return nil, perr.New(perr.KindFetch, orDefault(wrapped.text(), msgSuggestFailed))
		}
		var items []json.RawMessage
		if len(wrapped.Verses) == 0 || json.Unmarshal(wrapped.Verses, &items) != nil {
			return nil, perr.New(perr.KindFormat, msgSuggestBadShape)
		}
		return verse.Decode(items), nil
	}
	return nil, perr.New(perr.KindFormat, msgSuggestBadShape)
}
