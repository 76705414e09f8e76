package concurrent

import "github.com/lintang-b-s/roadsim/pkg/engine/clustering"

// ZoomLevelJob one zoom level to cluster. Params are derived from the level and graph size.
type ZoomLevelJob struct {
	ZoomLevel float64
	Params    clustering.Params
}

func NewZoomLevelJob(zoom float64, params clustering.Params) ZoomLevelJob {
	return ZoomLevelJob{ZoomLevel: zoom, Params: params}
}

// ZoomLevelResult view built for one zoom level, Err is set when clustering failed.
type ZoomLevelResult struct {
	ZoomLevel float64
	View      clustering.ClusterView
	Err       error
}

type JobI interface {
	ZoomLevelJob
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G
