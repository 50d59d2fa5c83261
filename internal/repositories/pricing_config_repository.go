package repositories

import (
	"context"
	"database/sql"
	"errors"

	"servioBack/internal/models"
)

// PricingConfigRepository reads the fee and coin configuration. The engine
// fetches one snapshot per checkout session and treats it as read-only.
type PricingConfigRepository struct {
	DB *sql.DB
}

// Snapshot returns the current fee and coin configuration.
func (r *PricingConfigRepository) Snapshot(ctx context.Context) (models.FeeConfig, models.CoinConfig, error) {
	query := `SELECT is_active, platform_fee, travel_charge_per_km, coin_to_rupee_rate, max_usage_percentage
		FROM pricing_config ORDER BY id DESC LIMIT 1`
	var fee models.FeeConfig
	var coin models.CoinConfig
	err := r.DB.QueryRowContext(ctx, query).Scan(
		&fee.IsActive, &fee.PlatformFee, &fee.TravelChargePerKm,
		&coin.CoinToRupeeRate, &coin.MaxUsagePercentage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FeeConfig{}, models.CoinConfig{}, models.ErrConfigNotFound
	}
	if err != nil {
		return models.FeeConfig{}, models.CoinConfig{}, err
	}
	return fee, coin, nil
}
