package pricing

import (
	"math"

	"servioBack/internal/models"
)

// Opts carries the customer's redemption choices for a bill computation.
type Opts struct {
	UseCoins  bool
	UseWallet bool
	// DistanceKm is the distance between the service address and the bound
	// worker. NaN means the distance is unknown and no travel charge applies.
	DistanceKm float64
}

// ComputeBill turns a cart into an itemized bill. The computation is pure:
// identical inputs always produce an identical bill and nothing is mutated.
//
// The discount order is fixed: coupon first, then coins capped against the
// post-coupon price, then fees added back in (fees are never discounted),
// then wallet credit against the whole payable. Every intermediate value is
// clamped at zero so no discount carries a negative remainder forward.
func ComputeBill(lines []models.CartLine, fee models.FeeConfig, coupon *models.AppliedCoupon, coin models.CoinConfig, wallet models.WalletState, opts Opts) (models.Bill, error) {
	if len(lines) == 0 {
		return models.Bill{}, models.ErrEmptyCart
	}

	subtotal := models.CartSubtotal(lines)

	platformFee := 0
	travelCharge := 0
	if fee.IsActive {
		platformFee = fee.PlatformFee
		if anyWorkerBound(lines) && !math.IsNaN(opts.DistanceKm) {
			travelCharge = int(math.Round(opts.DistanceKm * float64(fee.TravelChargePerKm)))
		}
	}

	couponDiscount := 0
	if coupon != nil {
		if coupon.OrderAmount != subtotal {
			return models.Bill{}, models.ErrStaleCoupon
		}
		couponDiscount = coupon.DiscountAmount
	}
	priceAfterCoupon := clampZero(subtotal - couponDiscount)

	coinsUsed := 0
	coinDiscount := 0
	if opts.UseCoins && coin.CoinToRupeeRate > 0 {
		maxCoinDiscount := priceAfterCoupon * coin.MaxUsagePercentage / 100
		maxCoinsAllowed := int(math.Floor(float64(maxCoinDiscount) / coin.CoinToRupeeRate))
		coinsUsed = minInt(wallet.CoinBalance, maxCoinsAllowed)
		coinDiscount = int(math.Floor(float64(coinsUsed) * coin.CoinToRupeeRate))
	}

	payableAfterCoins := clampZero(priceAfterCoupon-coinDiscount) + platformFee + travelCharge

	walletAmountUsed := 0
	if opts.UseWallet {
		walletAmountUsed = minInt(wallet.Balance, payableAfterCoins)
	}

	return models.Bill{
		Subtotal:         subtotal,
		PlatformFee:      platformFee,
		TravelCharge:     travelCharge,
		CouponDiscount:   couponDiscount,
		CoinsUsed:        coinsUsed,
		CoinDiscount:     coinDiscount,
		WalletAmountUsed: walletAmountUsed,
		FinalPayable:     clampZero(payableAfterCoins - walletAmountUsed),
	}, nil
}

func anyWorkerBound(lines []models.CartLine) bool {
	for _, l := range lines {
		if l.WorkerID != 0 {
			return true
		}
	}
	return false
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
