package merge

import "github.com/Taichi-iskw/arena-merge/internal/model"

// MergePlan is the read-only preview of a merge
type MergePlan struct {
	Destination     model.ChannelRef `json:"destination"`
	Source          model.ChannelRef `json:"source"`
	DestinationSize int              `json:"destination_size"`
	SourceSize      int              `json:"source_size"`
	Blocks          []model.Block    `json:"blocks"`
}

// Plan returns, in source order, the source blocks that have no equal block in dest.
// A key repeated inside source is planned once.
func Plan(source, dest []model.Block) []model.Block {
	seen := make(map[blockKey]struct{}, len(dest)+len(source))
	for _, b := range dest {
		seen[keyOf(b)] = struct{}{}
	}

	plan := make([]model.Block, 0, len(source))
	for _, b := range source {
		key := keyOf(b)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		plan = append(plan, b)
	}
	return plan
}
