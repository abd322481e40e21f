package advisory

import (
	"sort"
)

// Risk levels.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

const (
	highRiskScore   = 16
	mediumRiskScore = 9
)

// Risk is one entry of a risk register. Impact and probability are scored 1-5.
type Risk struct {
	Factor      string `json:"factor"`
	Impact      int    `json:"impact"`
	Probability int    `json:"probability"`
	Score       int    `json:"score"`
	Level       string `json:"level"`
}

// RiskLevel classifies an impact-times-probability score.
func RiskLevel(score int) string {
	switch {
	case score >= highRiskScore:
		return RiskHigh
	case score >= mediumRiskScore:
		return RiskMedium
	default:
		return RiskLow
	}
}

// NewRisk scores a risk factor.
func NewRisk(factor string, impact, probability int) Risk {
	score := impact * probability
	return Risk{Factor: factor, Impact: impact, Probability: probability, Score: score, Level: RiskLevel(score)}
}

// Register sorts risks by descending score, keeping the given order among
// equal scores.
func Register(risks []Risk) []Risk {
	out := append([]Risk(nil), risks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// DevelopmentRisks returns the standard development risk register.
func DevelopmentRisks() []Risk {
	return Register([]Risk{
		NewRisk("Planning Permission Delay", 4, 3),
		NewRisk("Construction Cost Overrun", 5, 4),
		NewRisk("Interest Rate Increase", 3, 3),
		NewRisk("Sales Price Decrease", 5, 2),
		NewRisk("Construction Delay", 4, 3),
		NewRisk("Supply Chain Issues", 3, 3),
		NewRisk("Labor Shortages", 3, 2),
		NewRisk("Regulatory Changes", 2, 2),
		NewRisk("Market Downturn", 5, 2),
	})
}

// ClinicRisks returns the key operating risks of a clinic.
func ClinicRisks() []Insight {
	return []Insight{
		{Level: LevelWarning, Icon: "⚔️", Title: "Market Competition", Message: "New competitors entering the market could impact both utilization and pricing power."},
		{Level: LevelWarning, Icon: "📉", Title: "Utilization Assumptions", Message: "The forecast assumes steady customer adoption. If utilization rates are 25% lower than projected, EBITDA would decrease significantly."},
		{Level: LevelWarning, Icon: "🔧", Title: "Equipment Downtime", Message: "Specialized equipment failures could impact revenue if replacement/repair timeframes are lengthy."},
		{Level: LevelWarning, Icon: "📜", Title: "Regulatory Changes", Message: "Changes in regulations around IV therapy or other treatments could impact operations."},
		{Level: LevelWarning, Icon: "👥", Title: "Staff Retention", Message: "Skilled staff are essential for service delivery. High turnover could impact quality and customer satisfaction."},
	}
}
