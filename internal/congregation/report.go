package congregation

import (
	"context"
	"slices"
	"time"

	"github.com/tartampluch/go-gabbai/internal/hebdate"
)

// ReportLine is one dated entry of an annual statement.
type ReportLine struct {
	Date        time.Time `json:"gregorianDate"`
	HebrewDate  string    `json:"date"`
	Label       string    `json:"type"`
	Description string    `json:"description"`
	Amount      Money     `json:"amount"`
}

// AnnualReport is a congregant's statement for one Hebrew year.
// Balances are payments minus charges, so a debt is negative.
type AnnualReport struct {
	CongregantID   string       `json:"congregantId"`
	CongregantName string       `json:"congregantName"`
	Year           int          `json:"year"`
	YearLabel      string       `json:"yearLabel"`
	Opening        Money        `json:"openingBalance"`
	Aliyot         []ReportLine `json:"aliyot"`
	Pledges        []ReportLine `json:"pledges"`
	Purchases      []ReportLine `json:"purchases"`
	Payments       []ReportLine `json:"payments"`
	TotalCharges   Money        `json:"totalCharges"`
	TotalPayments  Money        `json:"totalPayments"`
	Closing        Money        `json:"closingBalance"`
}

// AnnualReport builds the statement of the Hebrew year running from
// 1 Tishrei of year to the eve of the next Rosh Hashanah.
func (s *Service) AnnualReport(ctx context.Context, congregantID string, year int) (AnnualReport, error) {
	c, err := s.congregants.Get(congregantID)
	if err != nil {
		return AnnualReport{}, err
	}
	start, err := hebdate.ToGregorian(1, hebdate.Tishrei, year)
	if err != nil {
		return AnnualReport{}, err
	}
	end, err := hebdate.ToGregorian(1, hebdate.Tishrei, year+1)
	if err != nil {
		return AnnualReport{}, err
	}

	rep := AnnualReport{
		CongregantID:   c.ID,
		CongregantName: c.FullName(),
		Year:           year,
		YearLabel:      hebdate.YearToGematria(year),
	}

	for _, ch := range s.Charges(congregantID) {
		if err := ctx.Err(); err != nil {
			return AnnualReport{}, err
		}
		switch {
		case ch.Date.Before(start):
			rep.Opening -= ch.Amount
		case ch.Date.Before(end):
			line := ReportLine{Date: ch.Date, HebrewDate: ch.HebrewDate, Description: ch.Description, Amount: ch.Amount}
			rep.TotalCharges += ch.Amount
			switch ch.Kind {
			case KindAliyah:
				line.Label = ch.AliyahType
				rep.Aliyot = append(rep.Aliyot, line)
			case KindPledge:
				line.Label = string(ch.Kind)
				rep.Pledges = append(rep.Pledges, line)
			case KindPurchase:
				line.Label = ch.Description
				rep.Purchases = append(rep.Purchases, line)
			}
		}
	}

	for _, p := range s.Payments(congregantID) {
		if err := ctx.Err(); err != nil {
			return AnnualReport{}, err
		}
		switch {
		case p.Date.Before(start):
			rep.Opening += p.Amount
		case p.Date.Before(end):
			rep.TotalPayments += p.Amount
			rep.Payments = append(rep.Payments, ReportLine{
				Date:        p.Date,
				HebrewDate:  p.HebrewDate,
				Label:       string(p.Method),
				Description: p.Reference,
				Amount:      p.Amount,
			})
		}
	}

	rep.Closing = rep.Opening - rep.TotalCharges + rep.TotalPayments
	return rep, nil
}

// Lines returns every charge line of the report by date.
func (r AnnualReport) Lines() []ReportLine {
	out := slices.Concat(r.Aliyot, r.Pledges, r.Purchases)
	slices.SortStableFunc(out, func(a, b ReportLine) int { return a.Date.Compare(b.Date) })
	return out
}
