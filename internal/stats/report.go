package stats

import (
	"context"

	"github.com/acastaldi/pedit/internal/model"
	"github.com/acastaldi/pedit/internal/store"
)

// Overview holds project-wide totals across users.
type Overview struct {
	Users         int
	Segments      int
	TotalTime     float64
	AvgTimePerSeg float64
	Edits         int
}

// Report contains precomputed data for dashboard rendering.
type Report struct {
	Overview   Overview
	Aggregates []model.UserAggregate
	Curves     map[int64][]float64
}

// BuildReport loads and prepares per-user aggregates and edit-time curves.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	aggs, err := st.UserAggregates(ctx, cfg)
	if err != nil {
		return Report{}, err
	}

	overview := Overview{Users: len(aggs)}
	for _, agg := range aggs {
		overview.Segments += agg.Segments
		overview.TotalTime += agg.TotalTime
		overview.Edits += agg.Edits
	}
	if overview.Segments > 0 {
		overview.AvgTimePerSeg = overview.TotalTime / float64(overview.Segments)
	}

	curves := make(map[int64][]float64, len(aggs))
	for _, agg := range aggs {
		series, err := st.EditTimeSeries(ctx, agg.UserID)
		if err != nil {
			return Report{}, err
		}
		curves[agg.UserID] = MovingAverage(series, cfg.CurveWindow)
	}

	return Report{
		Overview:   overview,
		Aggregates: aggs,
		Curves:     curves,
	}, nil
}
