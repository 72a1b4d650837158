package score

import (
	"sync"

	"github.com/mchmarny/planscore/pkg/plan"
)

var (
	defaultOnce   sync.Once
	defaultScorer *Scorer
)

// Default returns the process-wide scorer used by the package level
// functions.
func Default() *Scorer {
	defaultOnce.Do(func() {
		c, err := NewCache(DefaultCacheSize, nil)
		if err != nil {
			// lru.New rejects only non-positive sizes
			panic(err)
		}
		defaultScorer = &Scorer{cache: c}
	})
	return defaultScorer
}

func Results(p plan.Partition, elections []string, party string) ([][]float64, error) {
	return Default().Results(p, elections, party)
}

func Stability(p plan.Partition, elections []string, party string) ([]int, error) {
	return Default().Stability(p, elections, party)
}

func CompetitiveDistricts(p plan.Partition, elections []string, party string, margin float64) (int, error) {
	return Default().CompetitiveDistricts(p, elections, party, margin)
}

func SwingDistricts(p plan.Partition, elections []string, party string) (int, error) {
	return Default().SwingDistricts(p, elections, party)
}

func PartyDistricts(p plan.Partition, elections []string, party string) (int, error) {
	return Default().PartyDistricts(p, elections, party)
}

func OppPartyDistricts(p plan.Partition, elections []string, party string) (int, error) {
	return Default().OppPartyDistricts(p, elections, party)
}

func PartyWinsByDistrict(p plan.Partition, elections []string, party string) (DistrictScores, error) {
	return Default().PartyWinsByDistrict(p, elections, party)
}

func Seats(p plan.Partition, elections []string, party string) (SeatScores, error) {
	return Default().Seats(p, elections, party)
}

func SignedProportionality(p plan.Partition, elections []string, party string) (ElectionScores, error) {
	return Default().SignedProportionality(p, elections, party)
}

func AbsoluteProportionality(p plan.Partition, elections []string, party string) (ElectionScores, error) {
	return Default().AbsoluteProportionality(p, elections, party)
}

func EfficiencyGap(p plan.Partition, elections []string) (ElectionScores, error) {
	return Default().EfficiencyGap(p, elections)
}

func MeanMedian(p plan.Partition, elections []string) (ElectionScores, error) {
	return Default().MeanMedian(p, elections)
}

func PartisanBias(p plan.Partition, elections []string) (ElectionScores, error) {
	return Default().PartisanBias(p, elections)
}

func PartisanGini(p plan.Partition, elections []string) (ElectionScores, error) {
	return Default().PartisanGini(p, elections)
}

func Eguia(p plan.Partition, elections []string, party string, county plan.Partition, population string) (ElectionScores, error) {
	return Default().Eguia(p, elections, party, county, population)
}
