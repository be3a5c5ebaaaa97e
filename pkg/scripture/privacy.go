package scripture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/verse"
)

const (
	opPrivacy          = "update-privacy"
	opBulkPrivacy      = "bulk-update-privacy"
	opDevotions        = "list-devotions"
	msgPrivacyFailed   = "Failed to update privacy"
	msgPrivacyBadShape = "Invalid privacy response"
	msgListFailed      = "Failed to load devotions"
)

type privacyRequest struct {
	IsPublic bool `json:"is_public"`
}

type bulkPrivacyRequest struct {
	IDs      []int64 `json:"ids"`
	IsPublic bool    `json:"is_public"`
}

// UpdatePrivacy persists the visibility of one devotion and returns the
// service's confirmation message.
func (c *Client) UpdatePrivacy(ctx context.Context, id int64, isPublic bool) (string, error) {
	path := fmt.Sprintf(c.endpoints.Privacy, id)
	return c.privacy(ctx, opPrivacy, path, privacyRequest{IsPublic: isPublic})
}

// BulkUpdatePrivacy persists the visibility of several devotions in one
// request.
func (c *Client) BulkUpdatePrivacy(ctx context.Context, ids []int64, isPublic bool) (string, error) {
	if len(ids) == 0 {
		return "", perr.WithOp(perr.Validationf("No devotions selected"), opBulkPrivacy)
	}
	return c.privacy(ctx, opBulkPrivacy, c.endpoints.BulkPrivacy, bulkPrivacyRequest{IDs: ids, IsPublic: isPublic})
}

func (c *Client) privacy(ctx context.Context, op, path string, payload any) (string, error) {
	resp, err := c.do(ctx, op, http.MethodPost, path, nil, payload)
	if err != nil {
		return "", perr.WithOp(perr.Wrap(err, perr.KindFetch, msgPrivacyFailed), op)
	}
	var body envelope
	if len(bytes.TrimSpace(resp.body)) > 0 {
		if err := json.Unmarshal(resp.body, &body); err != nil && resp.ok() {
			return "", perr.WithOp(perr.Wrap(err, perr.KindFormat, msgPrivacyBadShape), op)
		}
	}
	if !resp.ok() || body.failed() {
		return "", perr.WithOp(perr.New(perr.KindFetch, orDefault(body.text(), msgPrivacyFailed)), op)
	}
	return orDefault(body.text(), "Privacy updated"), nil
}

// ListDevotions returns the caller's devotions with their visibility. The
// service may answer with a bare list or a {devotions: [...]} object.
func (c *Client) ListDevotions(ctx context.Context) ([]verse.PrivacyRecord, error) {
	resp, err := c.do(ctx, opDevotions, http.MethodGet, c.endpoints.Devotions, nil, nil)
	if err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.KindFetch, msgListFailed), opDevotions)
	}
	if !resp.ok() || !isJSON(resp.body) {
		return nil, perr.WithOp(perr.New(perr.KindFetch, orDefault(payloadMessage(resp.body), msgListFailed)), opDevotions)
	}

	var records []verse.PrivacyRecord
	trimmed := bytes.TrimSpace(resp.body)
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, perr.WithOp(perr.Wrap(err, perr.KindFormat, "Invalid devotion list"), opDevotions)
		}
		return records, nil
	}
	var wrapped struct {
		Devotions *[]verse.PrivacyRecord `json:"devotions"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil || wrapped.Devotions == nil {
		return nil, perr.WithOp(perr.Formatf("Invalid devotion list"), opDevotions)
	}
	return *wrapped.Devotions, nil
}
