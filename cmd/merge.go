package cmd

import (
	"github.com/Taichi-iskw/arena-merge/cmd/merge"
)

var mergeFactory = merge.NewServiceFactory()

func init() {
	rootCmd.AddCommand(merge.NewMergeCommand(mergeFactory))
}
