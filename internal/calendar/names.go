package calendar

// formatNames maps format keys to their Korean display names used in
// chat previews.
var formatNames = map[string]string{
	"comeback_lookbook":       "컴백 예측 룩북",
	"airport_fashion":         "공항 패션 재해석",
	"weekly_trend":            "이주의 트렌드 믹스",
	"street_snap":             "스트릿 스냅 & 긱시크",
	"archetype_battle":        "아키타입 배틀",
	"highfashion_tribute":     "하이패션 헌정",
	"retro_remake":            "레트로 리메이크",
	"festival_look":           "페스티벌 룩",
	"seasonal_curation":       "계절 큐레이션",
	"virtual_influencer_ootd": "가상 에디터 OOTD",
	"style_editorial":         "스타일 에디토리얼",
	"vibe_alike":              "Vibe-Alike 화보",
	"stage_look":              "무대 패션 분석",
	"mv_analysis":             "MV 패션 분석",
	"fan_discussion":          "팬 오픈 토크",
}

// FormatName returns the display name for a format key, or the key
// itself when unknown.
func FormatName(key string) string {
	if name, ok := formatNames[key]; ok {
		return name
	}
	return key
}

var dayNames = []string{"일", "월", "화", "수", "목", "금", "토"}

// DayName returns the Korean weekday short name for 0 (Sunday) to 6.
func DayName(weekday int) string {
	if weekday < 0 || weekday >= len(dayNames) {
		return ""
	}
	return dayNames[weekday]
}
