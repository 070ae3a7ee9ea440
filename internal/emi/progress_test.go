package emi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/storefront-gateway/internal/backend"
)

func record(tenure, paid int, installments ...backend.Installment) backend.EMIRecord {
	return backend.EMIRecord{
		ID:               "rec-1",
		OrderID:          "ord-1",
		TenureMonths:     tenure,
		InstallmentsPaid: paid,
		Installments:     installments,
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 25, Progress(record(12, 3)))
	assert.Equal(t, 0, Progress(record(0, 3)), "zero tenure must not divide")
	assert.Equal(t, 100, Progress(record(12, 12)))
	assert.Equal(t, 0, Progress(record(12, 0)))
	assert.Equal(t, 100, Progress(record(12, 15)), "clamped even if backend over-reports")
	assert.Equal(t, 33, Progress(record(3, 1)))
}

func TestNextInstallment(t *testing.T) {
	rec := record(12, 3,
		backend.Installment{Number: 1, Status: "paid"},
		backend.Installment{Number: 2, Status: "paid"},
		backend.Installment{Number: 3, Status: "paid"},
		backend.Installment{Number: 4, Status: "pending", Amount: "1250.00"},
		backend.Installment{Number: 5, Status: "pending"},
	)
	next := NextInstallment(rec)
	require.NotNil(t, next)
	assert.Equal(t, 4, next.Number, "first pending entry in chronological order")

	allPaid := record(2, 2,
		backend.Installment{Number: 1, Status: "paid"},
		backend.Installment{Number: 2, Status: "paid"},
	)
	assert.Nil(t, NextInstallment(allPaid))
}

func TestSummarize_PassesAmountsThrough(t *testing.T) {
	rec := record(12, 3, backend.Installment{Number: 4, Status: "pending"})
	rec.AmountPaid = "3750"
	rec.RemainingAmount = "11250.5"
	rec.MonthlyInstallment = "1250"

	s := Summarize(rec)
	assert.Equal(t, 25, s.ProgressPercent)
	assert.Equal(t, "3750.00", s.AmountPaid, "verbatim pass-through, 2dp display format")
	assert.Equal(t, "11250.50", s.RemainingAmount)
	assert.Equal(t, "1250.00", s.MonthlyInstallment)
	require.NotNil(t, s.NextInstallment)
	assert.Equal(t, 4, s.NextInstallment.Number)
}
