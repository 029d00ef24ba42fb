package service

import "math"

const (
	BandPerfect          = "perfect"
	BandExcellent        = "excellent"
	BandGood             = "good"
	BandNeedsImprovement = "needs_improvement"
)

// ScoreConverterService turns raw scores into the figures shown on a result page.
type ScoreConverterService interface {
	ToPercent(score, maxScore float64) float64
	PerformanceBand(scorePercent float64) string
}

type scoreConverterServiceImpl struct{}

func NewScoreConverterService() ScoreConverterService {
	return &scoreConverterServiceImpl{}
}

// ToPercent rounds to two decimals. A zero max score yields 0.
func (s *scoreConverterServiceImpl) ToPercent(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return math.Round(score/maxScore*10000) / 100
}

func (s *scoreConverterServiceImpl) PerformanceBand(scorePercent float64) string {
	switch {
	case scorePercent >= 100:
		return BandPerfect
	case scorePercent >= 80:
		return BandExcellent
	case scorePercent >= 60:
		return BandGood
	default:
		return BandNeedsImprovement
	}
}
