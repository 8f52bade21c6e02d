package analyticsapi

import "pulse/internal/domain/analytics"

type SummaryResponse struct {
	Views      int                  `json:"views"`
	Clicks     int                  `json:"clicks"`
	CTR        string               `json:"ctr"`
	ViewsData  []analytics.DayCount `json:"viewsData"`
	ClicksData []analytics.DayCount `json:"clicksData"`
	TopBlocks  []analytics.TopBlock `json:"topBlocks"`
}

type ClickRequest struct {
	BlockID string `json:"blockId"`
}
