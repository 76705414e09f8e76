package guidance

import "github.com/lintang-b-s/roadsim/pkg/datastructure"

type TravelTimer interface {
	TravelTime(e datastructure.Edge) float64
}
