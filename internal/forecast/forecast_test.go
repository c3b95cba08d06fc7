package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResample_NearestPointPerBucket(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series := Series{
		SiteID: "site-1",
		Points: []Point{
			{Time: base, PowerKW: 1},
			{Time: base.Add(10 * time.Minute), PowerKW: 2},
			{Time: base.Add(20 * time.Minute), PowerKW: 3},
		},
	}

	out, err := series.Resample(base, 15, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1.0, out[0]) // bucket at t=0 nearest to point at t=0
	assert.Equal(t, 2.0, out[1]) // bucket at t=15 is 5min from both t=10 and t=20; first-seen wins the tie
}

func TestResample_EmptySeriesErrors(t *testing.T) {
	series := Series{SiteID: "site-1"}
	_, err := series.Resample(time.Now(), 15, 4)
	assert.Error(t, err)
}

func TestError_MessageIsErrorString(t *testing.T) {
	err := &Error{StatusCode: 429, Code: "RATE_LIMIT_EXCEEDED", Message: "too many requests"}
	assert.Equal(t, "too many requests", err.Error())
}
