package arena

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
)

// channelPayload is the API representation of a channel
type channelPayload struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Status      string         `json:"status"`
	Description *string        `json:"description"`
	Length      int            `json:"length"`
	Metadata    *channelMeta   `json:"metadata"`
	Contents    []blockPayload `json:"contents"`
}

type channelMeta struct {
	Description string `json:"description"`
}

// blockPayload is the API representation of a block (or a connected channel inside contents)
type blockPayload struct {
	ID        int64   `json:"id"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Class     string  `json:"class"`
	BaseClass string  `json:"base_class"`
}

func (p *channelPayload) toModel() *model.Channel {
	channel := &model.Channel{
		ID:     p.ID,
		Slug:   p.Slug,
		Title:  p.Title,
		Status: p.Status,
		Length: p.Length,
	}
	switch {
	case p.Description != nil:
		channel.Description = *p.Description
	case p.Metadata != nil:
		channel.Description = p.Metadata.Description
	}

	channel.Contents = make([]model.Block, 0, len(p.Contents))
	for _, b := range p.Contents {
		block := b.toModel()
		block.ChannelID = p.ID
		channel.Contents = append(channel.Contents, *block)
	}
	return channel
}

func (p *blockPayload) toModel() *model.Block {
	block := &model.Block{
		ID:        p.ID,
		Class:     p.Class,
		BaseClass: p.BaseClass,
	}
	if p.Title != nil {
		block.Title = *p.Title
	}
	if p.Content != nil {
		block.Content = *p.Content
	}
	return block
}

// GetChannel fetches channel metadata plus one page of its contents
func (c *HTTPClient) GetChannel(ctx context.Context, identifier string, page, perPage int) (*model.Channel, error) {
	id, err := ResolveIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if page < 1 || perPage < 1 {
		return nil, errors.New(errors.CodeInvalidArg, "page and perPage must be positive")
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per", strconv.Itoa(perPage))

	var payload channelPayload
	if err := c.do(ctx, http.MethodGet, "/channels/"+url.PathEscape(id), query, nil, &payload); err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			return nil, errors.Wrap(err, errors.CodeNotFound, "channel not found: "+identifier)
		}
		return nil, err
	}
	return payload.toModel(), nil
}

// CreateChannel creates a new channel with the given title
func (c *HTTPClient) CreateChannel(ctx context.Context, title string) (*model.Channel, error) {
	if title == "" {
		return nil, errors.New(errors.CodeInvalidArg, "channel title is required")
	}

	var payload channelPayload
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, "/channels", nil, body, &payload); err != nil {
		return nil, err
	}
	return payload.toModel(), nil
}

// DeleteChannel deletes a channel
func (c *HTTPClient) DeleteChannel(ctx context.Context, identifier string) error {
	id, err := ResolveIdentifier(identifier)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/channels/"+url.PathEscape(id), nil, nil, nil)
}

// SearchChannelByTitle returns the first search result whose title matches exactly
func (c *HTTPClient) SearchChannelByTitle(ctx context.Context, title string) (*model.Channel, error) {
	if title == "" {
		return nil, errors.New(errors.CodeInvalidArg, "channel title is required")
	}

	query := url.Values{}
	query.Set("q", title)

	var result struct {
		Channels []channelPayload `json:"channels"`
	}
	if err := c.do(ctx, http.MethodGet, "/search/channels", query, nil, &result); err != nil {
		return nil, err
	}

	for i := range result.Channels {
		if result.Channels[i].Title == title {
			return result.Channels[i].toModel(), nil
		}
	}
	return nil, errors.New(errors.CodeNotFound, "no channel titled "+strconv.Quote(title))
}
