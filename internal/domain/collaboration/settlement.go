package collaboration

import (
	"math"
	"math/bits"

	"github.com/collabhub/server/internal/model"
)

const bpsDenominator = 10000

// Settle computes the payout breakdown for a gross amount.
//
// Commission and processing are taken from gross, GST is charged on the
// commission, and every share is rounded half up to the minor unit.
// The payout never goes below zero.
func Settle(gross model.Money, s PlatformSettings) model.Settlement {
	commission := applyBps(gross.Minor, s.CommissionBps)
	gst := applyBps(commission, s.GSTBps)
	processing := applyBps(gross.Minor, s.ProcessingBps)

	payout := gross.Minor
	for _, fee := range []int64{commission, gst, processing} {
		if fee >= payout {
			payout = 0
			break
		}
		payout -= fee
	}
	if payout < 0 {
		payout = 0
	}

	cur := gross.Currency
	return model.Settlement{
		Gross:         model.NewMoney(gross.Minor, cur),
		Commission:    model.NewMoney(commission, cur),
		GST:           model.NewMoney(gst, cur),
		ProcessingFee: model.NewMoney(processing, cur),
		Payout:        model.NewMoney(payout, cur),
	}
}

// applyBps returns round_half_up(amount * bps / 10000) for non-negative inputs.
// The product is taken in 128 bits; shares beyond int64 saturate.
func applyBps(amount, bps int64) int64 {
	if amount <= 0 || bps <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(amount), uint64(bps))
	lo, carry := bits.Add64(lo, bpsDenominator/2, 0)
	hi += carry
	if hi >= bpsDenominator {
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, bpsDenominator)
	if q > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(q)
}
