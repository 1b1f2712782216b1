package models

// AdviceRequest asks for a sail recommendation for one wind condition.
type AdviceRequest struct {
	WindSpeedKts float64 `json:"windSpeedKts"`
	WindAngleDeg float64 `json:"windAngleDeg"`
	Mode         string  `json:"mode"`
}

// PolarSpeedResponse is the predicted boat speed for a polar query.
type PolarSpeedResponse struct {
	WindSpeedKts float64 `json:"windSpeedKts"`
	WindAngleDeg float64 `json:"windAngleDeg"`
	SailConfig   string  `json:"sailConfig,omitempty"`
	SpeedKts     float64 `json:"speedKts"`
}
