package request

type WeeklyRuleItem struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Available bool   `json:"isAvailable"`
}

type ReplaceWeeklyRulesRequest struct {
	Rules []WeeklyRuleItem `json:"rules" binding:"required,dive"`
}

// OverrideItem with empty times on a blocking entry blocks the whole day.
type OverrideItem struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"isAvailable"`
}

type ReplaceOverridesRequest struct {
	Date      string         `json:"date" binding:"required"`
	Overrides []OverrideItem `json:"overrides"`
}
