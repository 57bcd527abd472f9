package arena

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Taichi-iskw/arena-merge/internal/model"
)

// CreateBlock creates a text block in the given channel
func (c *HTTPClient) CreateBlock(ctx context.Context, channelIdentifier, title, content string) (*model.Block, error) {
	id, err := ResolveIdentifier(channelIdentifier)
	if err != nil {
		return nil, err
	}

	body := map[string]string{
		"title":   title,
		"content": content,
	}

	var payload blockPayload
	if err := c.do(ctx, http.MethodPost, "/channels/"+url.PathEscape(id)+"/blocks", nil, body, &payload); err != nil {
		return nil, err
	}
	return payload.toModel(), nil
}

// GetBlock fetches a single block
func (c *HTTPClient) GetBlock(ctx context.Context, id int64) (*model.Block, error) {
	var payload blockPayload
	if err := c.do(ctx, http.MethodGet, "/blocks/"+strconv.FormatInt(id, 10), nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.toModel(), nil
}

// DeleteBlock deletes a single block
func (c *HTTPClient) DeleteBlock(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/blocks/"+strconv.FormatInt(id, 10), nil, nil, nil)
}
