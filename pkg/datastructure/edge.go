package datastructure

// Edge undirected road segment between Source and Target. Length and Capacity are fixed at creation,
// CurrentVehicles is the live simulated load and never goes below zero.
type Edge struct {
	ID              int32   `json:"id"`
	Source          int32   `json:"source"`
	Target          int32   `json:"target"`
	Length          float64 `json:"length"`
	Capacity        int     `json:"capacity"`
	CurrentVehicles int     `json:"current_vehicles"`
	MallConnection  bool    `json:"is_mall_connection"`
}

// OtherVertex returns the endpoint opposite vertexID.
func (e Edge) OtherVertex(vertexID int32) int32 {
	if e.Source == vertexID {
		return e.Target
	}
	return e.Source
}

func (e Edge) Connects(v1, v2 int32) bool {
	return (e.Source == v1 && e.Target == v2) || (e.Source == v2 && e.Target == v1)
}

// CongestionRatio current_vehicles / capacity.
func (e Edge) CongestionRatio() float64 {
	if e.Capacity <= 0 {
		return 0
	}
	return float64(e.CurrentVehicles) / float64(e.Capacity)
}

// capacityFromLength hundred vehicles per unit of length, at least one.
func capacityFromLength(length float64) int {
	return max(1, int(length*100))
}
