// Package emi derives display-ready progress metrics from EMI records. The
// backend's totals are authoritative; nothing here recomputes paid or
// remaining sums.
package emi

import (
	"math"

	"github.com/voltmart/storefront-gateway/internal/backend"
)

// Progress returns the repayment completion percentage, rounded, clamped to
// [0,100]. A zero tenure yields 0 rather than dividing by it.
func Progress(rec backend.EMIRecord) int {
	if rec.TenureMonths <= 0 {
		return 0
	}
	p := int(math.Round(float64(rec.InstallmentsPaid) / float64(rec.TenureMonths) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// NextInstallment returns the first pending installment in list order
// (the list is chronological), or nil when everything is paid.
func NextInstallment(rec backend.EMIRecord) *backend.Installment {
	for i := range rec.Installments {
		if rec.Installments[i].Status == "pending" {
			return &rec.Installments[i]
		}
	}
	return nil
}

// Summary is the view model for an EMI record. Amounts pass through from the
// record verbatim, formatted to two decimal places.
type Summary struct {
	RecordID           string               `json:"record_id"`
	OrderID            string               `json:"order_id"`
	ProgressPercent    int                  `json:"progress_percent"`
	TenureMonths       int                  `json:"tenure_months"`
	InstallmentsPaid   int                  `json:"installments_paid"`
	MonthlyInstallment string               `json:"monthly_installment"`
	AmountPaid         string               `json:"amount_paid"`
	RemainingAmount    string               `json:"remaining_amount"`
	NextInstallment    *backend.Installment `json:"next_installment,omitempty"`
}

func Summarize(rec backend.EMIRecord) Summary {
	return Summary{
		RecordID:           rec.ID,
		OrderID:            rec.OrderID,
		ProgressPercent:    Progress(rec),
		TenureMonths:       rec.TenureMonths,
		InstallmentsPaid:   rec.InstallmentsPaid,
		MonthlyInstallment: format2dp(rec.MonthlyInstallment),
		AmountPaid:         format2dp(rec.AmountPaid),
		RemainingAmount:    format2dp(rec.RemainingAmount),
		NextInstallment:    NextInstallment(rec),
	}
}

func format2dp(n backend.Numeric) string {
	return n.Decimal().StringFixed(2)
}
