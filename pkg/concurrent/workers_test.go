package concurrent

import (
	"sort"
	"testing"

	"github.com/lintang-b-s/roadsim/pkg/engine/clustering"
	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	workers := NewWorkerPool[ZoomLevelJob, int](4, 50)
	for i := 0; i < 50; i++ {
		workers.AddJob(NewZoomLevelJob(float64(i), clustering.Params{MinSamples: i}))
	}
	workers.Close()
	workers.Start(func(job ZoomLevelJob) int {
		return int(job.ZoomLevel) + job.Params.MinSamples
	})
	workers.Wait()

	got := make([]int, 0, 50)
	for res := range workers.CollectResults() {
		got = append(got, res)
	}
	sort.Ints(got)

	want := make([]int, 50)
	for i := range want {
		want[i] = 2 * i
	}
	assert.Equal(t, want, got)
}

func TestWorkerPoolZoomLevelJobs(t *testing.T) {
	levels := clustering.DefaultZoomLevels
	workers := NewWorkerPool[ZoomLevelJob, ZoomLevelResult](0, len(levels))
	for _, zoom := range levels {
		workers.AddJob(NewZoomLevelJob(zoom, clustering.ParamsForZoom(zoom, 10)))
	}
	workers.Close()
	workers.Start(func(job ZoomLevelJob) ZoomLevelResult {
		return ZoomLevelResult{ZoomLevel: job.ZoomLevel}
	})
	workers.Wait()

	got := make([]float64, 0, len(levels))
	for res := range workers.CollectResults() {
		assert.NoError(t, res.Err)
		got = append(got, res.ZoomLevel)
	}
	assert.ElementsMatch(t, levels, got)
}
