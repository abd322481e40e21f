package clinic

import (
	"github.com/hatchend/feasibility/internal/analysis"
	"github.com/hatchend/feasibility/pkg/constants"
	"github.com/hatchend/feasibility/pkg/mathutil"
)

// Service and membership line names.
const (
	ServiceCryotherapy   = "Cryotherapy"
	ServiceSauna         = "Infrared Sauna"
	ServiceIVTherapy     = "IV Therapy"
	ServiceFaceTreatment = "Face Treatment"

	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

// ServiceLine is the year's figures for one service.
type ServiceLine struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Capacity    float64 `json:"capacity"`
	Utilization float64 `json:"utilization"`
	Sessions    float64 `json:"sessions"`
	Revenue     float64 `json:"revenue"`
}

// TierLine is the year's figures for one membership tier.
type TierLine struct {
	Name    string  `json:"name"`
	Members float64 `json:"members"`
	Price   float64 `json:"price"`
	Revenue float64 `json:"revenue"`
}

// YearRevenue is one projection year's revenue, split into services and
// memberships.
type YearRevenue struct {
	Year        int           `json:"year"`
	Services    []ServiceLine `json:"services"`
	Memberships []TierLine    `json:"memberships"`
	Service     float64       `json:"serviceRevenue"`
	Membership  float64       `json:"membershipRevenue"`
	Total       float64       `json:"total"`
}

// Breakdown returns the year's revenue as named lines, services first.
func (y YearRevenue) Breakdown() analysis.Breakdown {
	lines := make([]analysis.Line, 0, len(y.Services)+len(y.Memberships))
	for _, s := range y.Services {
		lines = append(lines, analysis.Line{Name: s.Name, Amount: s.Revenue})
	}
	for _, m := range y.Memberships {
		lines = append(lines, analysis.Line{Name: m.Name + " Membership", Amount: m.Revenue})
	}
	return analysis.NewBreakdown(lines...)
}

// ServiceBreakdown returns the service revenue lines only.
func (y YearRevenue) ServiceBreakdown() analysis.Breakdown {
	lines := make([]analysis.Line, 0, len(y.Services))
	for _, s := range y.Services {
		lines = append(lines, analysis.Line{Name: s.Name, Amount: s.Revenue})
	}
	return analysis.NewBreakdown(lines...)
}

// Revenue is the three-year revenue projection.
type Revenue [constants.ProjectionYears]YearRevenue

// priceFactor is the cumulative price escalation applied in a year.
func (p Parameters) priceFactor(year int) float64 {
	f := 1.0
	if year >= 2 {
		f = mathutil.Grow(f, p.PriceIncreaseY2Pct)
	}
	if year >= 3 {
		f = mathutil.Grow(f, p.PriceIncreaseY3Pct)
	}
	return f
}

// memberFactor is the cumulative membership growth applied in a year.
func (p Parameters) memberFactor(year int) float64 {
	f := 1.0
	if year >= 2 {
		f = mathutil.Grow(f, p.MembershipGrowthY2Pct)
	}
	if year >= 3 {
		f = mathutil.Grow(f, p.MembershipGrowthY3Pct)
	}
	return f
}

// ServiceUtilization is the effective utilisation of a service: the year's
// average utilisation times the service factor, capped at full capacity.
func ServiceUtilization(avgPct, factor float64) float64 {
	return mathutil.Min(avgPct/constants.PercentageMultiplier*factor, 1)
}

// ComputeYearRevenue projects one year. Year one uses the base prices; later
// years compound the price increases. Members grow the same way.
func ComputeYearRevenue(p Parameters, year int) YearRevenue {
	avg := p.YearUtilizationPct(year)
	pf := p.priceFactor(year)
	hours := p.OperatingHoursWeekly * constants.WeeksPerYear

	services := []struct {
		name            string
		price, capacity float64
		factor          float64
	}{
		{ServiceCryotherapy, p.CryotherapyPrice, p.CryotherapyCapacity, p.CryotherapyFactor},
		{ServiceSauna, p.SaunaPrice, p.SaunaCapacity, p.SaunaFactor},
		{ServiceIVTherapy, p.AverageIVPrice(), p.IVCapacity, p.IVFactor},
		{ServiceFaceTreatment, p.FaceTreatmentPrice, p.FaceTreatmentCapacity, p.FaceTreatmentFactor},
	}

	y := YearRevenue{Year: year}
	for _, s := range services {
		util := ServiceUtilization(avg, s.factor)
		sessions := s.capacity * hours * util
		line := ServiceLine{
			Name:        s.name,
			Price:       s.price * pf,
			Capacity:    s.capacity,
			Utilization: util,
			Sessions:    sessions,
			Revenue:     s.price * pf * sessions,
		}
		y.Services = append(y.Services, line)
		y.Service += line.Revenue
	}

	mf := p.memberFactor(year)
	tiers := []struct {
		name           string
		members, price float64
	}{
		{TierSilver, p.SilverMembers, p.SilverPrice},
		{TierGold, p.GoldMembers, p.GoldPrice},
		{TierPlatinum, p.PlatinumMembers, p.PlatinumPrice},
	}
	for _, t := range tiers {
		line := TierLine{
			Name:    t.name,
			Members: t.members * mf,
			Price:   t.price * pf,
		}
		line.Revenue = line.Members * line.Price * constants.MonthsPerYear
		y.Memberships = append(y.Memberships, line)
		y.Membership += line.Revenue
	}

	y.Total = y.Service + y.Membership
	return y
}

// ComputeRevenue projects all three years.
func ComputeRevenue(p Parameters) Revenue {
	var r Revenue
	for i := range r {
		r[i] = ComputeYearRevenue(p, i+1)
	}
	return r
}
