package response

import (
	"meetslot/internal/domain/availability"
)

type WeeklyRuleResponse struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"isAvailable"`
}

type OverrideResponse struct {
	Date      string  `json:"date"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Available bool    `json:"isAvailable"`
}

func FromWeeklyRules(rules []availability.WeeklyRule) []WeeklyRuleResponse {
	out := make([]WeeklyRuleResponse, len(rules))
	for i, r := range rules {
		out[i] = WeeklyRuleResponse{
			Weekday:   int(r.Weekday),
			StartTime: r.Window.Start.String(),
			EndTime:   r.Window.End.String(),
			Available: r.Available,
		}
	}
	return out
}

func FromOverrides(overrides []availability.DateOverride) []OverrideResponse {
	out := make([]OverrideResponse, len(overrides))
	for i, o := range overrides {
		resp := OverrideResponse{
			Date:      o.Date.String(),
			Available: o.Available,
		}
		if o.Window != nil {
			start := o.Window.Start.String()
			end := o.Window.End.String()
			resp.StartTime = &start
			resp.EndTime = &end
		}
		out[i] = resp
	}
	return out
}
