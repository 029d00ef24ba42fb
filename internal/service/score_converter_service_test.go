package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreConverter(t *testing.T) {
	sc := NewScoreConverterService()

	assert.Equal(t, 0.0, sc.ToPercent(3, 0))
	assert.Equal(t, 66.67, sc.ToPercent(2, 3))
	assert.Equal(t, 100.0, sc.ToPercent(5, 5))

	cases := map[float64]string{
		100:   BandPerfect,
		80:    BandExcellent,
		99.99: BandExcellent,
		60:    BandGood,
		59.9:  BandNeedsImprovement,
		0:     BandNeedsImprovement,
	}
	for pct, want := range cases {
		assert.Equal(t, want, sc.PerformanceBand(pct), "percent %v", pct)
	}
}
