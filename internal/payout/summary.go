package payout

import (
	"sort"

	"github.com/KromaEnergia/teamsheet-api/internal/cobrand"
	"github.com/KromaEnergia/teamsheet-api/internal/gifttracker"
	"github.com/KromaEnergia/teamsheet-api/internal/money"
)

// Inputs is everything one season's summary is computed from. Tiers and Rules
// should already be limited to active rows.
type Inputs struct {
	Gifts       []gifttracker.Entry
	Deals       []cobrand.Deal
	Tiers       []Tier
	Rules       []Rule
	Assignments []PrizeAssignment
	Adjustments []Adjustment
}

type Row struct {
	EmployeeName     string      `json:"employee_name"`
	SalesTotalCents  int64       `json:"sales_total_cents"`
	TierPayoutCents  int64       `json:"tier_payout_cents"`
	RulePayoutCents  int64       `json:"rule_payout_cents"`
	MiscCents        int64       `json:"misc_cents"`
	PrizeValueCents  int64       `json:"prize_value_cents"`
	TotalPayoutCents int64       `json:"total_payout_cents"`
	Prizes           []PrizeRead `json:"prizes"`
}

type ranked struct {
	name  string
	sales int64
}

// Summarize computes one row per name with sales. Names are used verbatim:
// gift tracker names and seller display names are not reconciled.
func Summarize(in Inputs) []Row {
	sales := make(map[string]int64)
	for i := range in.Gifts {
		sales[in.Gifts[i].EmployeeName] += in.Gifts[i].WeekDollars() * 100
	}
	for i := range in.Deals {
		name := in.Deals[i].SellerName()
		if name == "" {
			continue
		}
		sales[name] += in.Deals[i].AmountCents
	}

	ranking := make([]ranked, 0, len(sales))
	for name, total := range sales {
		ranking = append(ranking, ranked{name, total})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].sales != ranking[j].sales {
			return ranking[i].sales > ranking[j].sales
		}
		return ranking[i].name < ranking[j].name
	})

	tiers := append([]Tier(nil), in.Tiers...)
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MinAmountCents < tiers[j].MinAmountCents })

	bonus := make(map[string]int64)
	for i := range in.Rules {
		if in.Rules[i].Type != RuleSeasonTopSeller {
			continue
		}
		cfg := in.Rules[i].ParsedConfig()
		if len(ranking) > 0 {
			bonus[ranking[0].name] += money.Percent(ranking[0].sales, *cfg.FirstPct)
		}
		if len(ranking) > 1 {
			bonus[ranking[1].name] += money.Percent(ranking[1].sales, *cfg.SecondPct)
		}
	}

	prizes := make(map[string][]Prize)
	for i := range in.Assignments {
		if p := in.Assignments[i].Prize; p != nil {
			prizes[in.Assignments[i].EmployeeName] = append(prizes[in.Assignments[i].EmployeeName], *p)
		}
	}
	misc := make(map[string]int64)
	for i := range in.Adjustments {
		misc[in.Adjustments[i].EmployeeName] += in.Adjustments[i].AmountCents
	}

	rows := make([]Row, 0, len(ranking))
	for _, rk := range ranking {
		row := Row{
			EmployeeName:    rk.name,
			SalesTotalCents: rk.sales,
			TierPayoutCents: tierPayout(tiers, rk.sales),
			RulePayoutCents: bonus[rk.name],
			MiscCents:       misc[rk.name],
			Prizes:          make([]PrizeRead, 0, len(prizes[rk.name])),
		}
		for j := range prizes[rk.name] {
			p := &prizes[rk.name][j]
			if p.CostCents != nil {
				row.PrizeValueCents += *p.CostCents
			}
			row.Prizes = append(row.Prizes, toPrizeRead(p))
		}
		row.TotalPayoutCents = row.TierPayoutCents + row.RulePayoutCents + row.MiscCents + row.PrizeValueCents
		rows = append(rows, row)
	}
	return rows
}

// tierPayout uses the first tier, by ascending minimum, that contains total.
func tierPayout(tiers []Tier, total int64) int64 {
	for i := range tiers {
		if !tiers[i].Contains(total) {
			continue
		}
		if tiers[i].PayoutType == TypeFixed {
			return tiers[i].PayoutValue
		}
		return money.BasisPoints(total, tiers[i].PayoutValue)
	}
	return 0
}
