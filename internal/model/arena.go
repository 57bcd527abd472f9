package model

// Channel represents an Are.na channel and its ordered contents
type Channel struct {
	ID          int64   `json:"id" db:"id"`
	Slug        string  `json:"slug" db:"slug"`
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	Status      string  `json:"status,omitempty" db:"-"`
	Length      int     `json:"length" db:"-"` // total number of items the API reports for the channel
	Contents    []Block `json:"contents,omitempty" db:"-"`
}

// Ref returns the identity part of the channel
func (c *Channel) Ref() ChannelRef {
	return ChannelRef{
		ID:    c.ID,
		Slug:  c.Slug,
		Title: c.Title,
	}
}

// ChannelRef identifies a channel without its contents
type ChannelRef struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Block represents one content item inside a channel
type Block struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Class     string `json:"class,omitempty"`      // Text, Image, Link, Media, Attachment
	BaseClass string `json:"base_class,omitempty"` // Block or Channel
	ChannelID int64  `json:"channel_id,omitempty"`
}

// Base classes used by Are.na for items inside a channel's contents
const (
	BaseClassBlock   = "Block"
	BaseClassChannel = "Channel"
)
