package ml

import "strconv"

// SliceType is the network-slice category carried by every metrics row.
type SliceType string

const (
	SliceEMBB  SliceType = "eMBB"
	SliceURLLC SliceType = "URLLC"
	SliceMMTC  SliceType = "mMTC"
)

// SliceMetrics is the input contract the allocator artifacts were trained
// against: one row of slice_input_metrics.csv as emitted by the simulator.
type SliceMetrics struct {
	TrafficVolume        float64
	PacketArrivalRate    float64
	LatencyRequirement   float64
	JitterRequirement    float64
	PacketLossTolerance  float64
	CPUUtilization       float64
	MemoryUtilization    float64
	BandwidthUtilization float64
	NumActiveUsers       int
	SliceType            SliceType
}

// SliceMetricsColumns returns the CSV header of a SliceMetrics row, in the
// order the simulator writes it.
func SliceMetricsColumns() []string {
	return []string{
		"Traffic_Volume",
		"Packet_Arrival_Rate",
		"Latency_Requirement",
		"Jitter_Requirement",
		"Packet_Loss_Tolerance",
		"CPU_Utilization",
		"Memory_Utilization",
		"Bandwidth_Utilization",
		"Num_Active_Users",
		"Slice_Type",
	}
}

// Cells renders the record as CSV cells aligned with SliceMetricsColumns.
func (m SliceMetrics) Cells() []string {
	return []string{
		formatCell(m.TrafficVolume),
		formatCell(m.PacketArrivalRate),
		formatCell(m.LatencyRequirement),
		formatCell(m.JitterRequirement),
		formatCell(m.PacketLossTolerance),
		formatCell(m.CPUUtilization),
		formatCell(m.MemoryUtilization),
		formatCell(m.BandwidthUtilization),
		strconv.Itoa(m.NumActiveUsers),
		string(m.SliceType),
	}
}

// NewSliceMetricsFrame builds a frame with the canonical header from typed
// records.
func NewSliceMetricsFrame(records []SliceMetrics) Frame {
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = record.Cells()
	}
	return Frame{Columns: SliceMetricsColumns(), Rows: rows}
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
