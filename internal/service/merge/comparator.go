package merge

import "github.com/Taichi-iskw/arena-merge/internal/model"

// blockKey is the equality key of a block
type blockKey struct {
	title   string
	content string
}

func keyOf(b model.Block) blockKey {
	return blockKey{title: b.Title, content: b.Content}
}

// BlocksEqual reports whether two blocks carry the same title and content.
// IDs are never compared; comparison is exact and case-sensitive.
func BlocksEqual(a, b model.Block) bool {
	return a.Title == b.Title && a.Content == b.Content
}

// ChannelsEqual reports whether two channels carry the same title and description
func ChannelsEqual(a, b *model.Channel) bool {
	return a.Title == b.Title && a.Description == b.Description
}
