package feed

import (
	"sort"

	"github.com/CHollingworth/magnus-downloader/internal/model"
)

// Sequence sorts episodes in place by ascending episode number.
//
// Feeds list newest entries first, so the parsed order is usually the
// reverse of the listening order. The sort is stable: episodes that
// share a number keep their feed order relative to each other.
func Sequence(episodes []*model.Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].Number < episodes[j].Number
	})
}
