package ml

import "math/rand"

type sliceProfile struct {
	trafficBase, trafficSpan int
	latencyBase, latencySpan int
	jitterBase               float64
	lossBase                 float64
}

// Ranges of the network-slicing simulator that produces
// slice_input_metrics.csv.
var sliceProfiles = map[SliceType]sliceProfile{
	SliceEMBB:  {trafficBase: 300, trafficSpan: 700, latencyBase: 3, latencySpan: 40, jitterBase: 0.5, lossBase: 0.04},
	SliceURLLC: {trafficBase: 15, trafficSpan: 985, latencyBase: 3, latencySpan: 100, jitterBase: 0.3, lossBase: 0.01},
	SliceMMTC:  {trafficBase: 8, trafficSpan: 992, latencyBase: 5, latencySpan: 100, jitterBase: 0.5, lossBase: 0.02},
}

// SliceOrder is the order the simulator emits slices in each round.
func SliceOrder() []SliceType {
	return []SliceType{SliceEMBB, SliceURLLC, SliceMMTC}
}

// GenerateSliceMetrics draws rounds simulator rounds, each producing one
// record per slice type.
func GenerateSliceMetrics(rng *rand.Rand, rounds int) []SliceMetrics {
	records := make([]SliceMetrics, 0, rounds*len(sliceProfiles))
	for i := 0; i < rounds; i++ {
		for _, slice := range SliceOrder() {
			p := sliceProfiles[slice]
			records = append(records, SliceMetrics{
				TrafficVolume:        float64(p.trafficBase + rng.Intn(p.trafficSpan)),
				PacketArrivalRate:    float64(10 + rng.Intn(490)),
				LatencyRequirement:   float64(p.latencyBase + rng.Intn(p.latencySpan)),
				JitterRequirement:    p.jitterBase + float64(rng.Intn(10)),
				PacketLossTolerance:  p.lossBase + float64(rng.Intn(500))/100.0,
				CPUUtilization:       float64(10 + rng.Intn(80)),
				MemoryUtilization:    float64(10 + rng.Intn(80)),
				BandwidthUtilization: float64(10 + rng.Intn(80)),
				NumActiveUsers:       1 + rng.Intn(49),
				SliceType:            slice,
			})
		}
	}
	return records
}
