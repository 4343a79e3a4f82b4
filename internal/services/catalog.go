package services

import (
	"github.com/bignash/datahub/internal/models"
	"github.com/shopspring/decimal"
)

const (
	ReasonUnknownNetwork    = "unknown network"
	ReasonInvalidDataAmount = "invalid data amount"
	ReasonPriceMismatch     = "price mismatch"
)

// PriceTolerance is the largest accepted difference between a claimed and a
// canonical amount
var PriceTolerance = decimal.RequireFromString("0.01")

// AFARegistrationPrice is the fixed price of an AFA registration
var AFARegistrationPrice = decimal.RequireFromString("0.50")

// BundleValidation is the result of a catalog lookup
type BundleValidation struct {
	Valid          bool
	Reason         string
	Network        models.Network
	CanonicalPrice decimal.Decimal
	ClaimedPrice   decimal.Decimal
}

// Err returns nil for a valid bundle and a *BundleError otherwise
func (v BundleValidation) Err() error {
	if v.Valid {
		return nil
	}
	return &BundleError{Reason: v.Reason, Canonical: v.CanonicalPrice, Claimed: v.ClaimedPrice}
}

// Catalog is the server-owned bundle price table, keyed by network and MB
type Catalog struct {
	bundles    map[models.Network]map[int]decimal.Decimal
	fixedPrice map[models.Network]decimal.Decimal
}

func NewCatalog(bundles map[models.Network]map[int]decimal.Decimal, fixed map[models.Network]decimal.Decimal) *Catalog {
	return &Catalog{bundles: bundles, fixedPrice: fixed}
}

// DefaultCatalog returns the current GHS price list
func DefaultCatalog() *Catalog {
	mtn := prices(map[int]string{
		1000: "6.00", 2000: "11.00", 3000: "16.00", 4000: "21.00", 5000: "26.00",
		6000: "30.00", 8000: "40.00", 10000: "49.00", 12000: "55.50", 15000: "69.00",
		20000: "89.00", 25000: "112.00", 30000: "130.00", 40000: "173.00", 50000: "210.00",
	})
	at := prices(map[int]string{
		1000: "1.00", 2048: "16.00", 3072: "22.00", 5120: "35.00", 10240: "60.00",
		15360: "85.00", 20480: "100.00", 25600: "125.00", 40960: "180.00", 51200: "220.00",
		102400: "420.00",
	})
	telecel := prices(map[int]string{
		1000: "6.00", 2000: "11.00", 3000: "16.00", 4000: "21.00", 5000: "26.00",
		6000: "30.00", 8000: "40.00", 10000: "49.00", 12000: "55.50", 15000: "69.00",
		20000: "89.00", 25000: "112.00", 30000: "130.00", 40000: "173.00", 50000: "210.00",
	})

	return NewCatalog(
		map[models.Network]map[int]decimal.Decimal{
			models.NetworkMTN:        mtn,
			models.NetworkAirtelTigo: at,
			models.NetworkTelecel:    telecel,
		},
		map[models.Network]decimal.Decimal{
			models.NetworkAFARegistration: AFARegistrationPrice,
		},
	)
}

func prices(table map[int]string) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal, len(table))
	for mb, price := range table {
		out[mb] = decimal.RequireFromString(price)
	}
	return out
}

// Validate checks a claimed price for (network, dataAmountMB) against the
// table. Fixed-price products ignore dataAmountMB and must match exactly at
// two decimal places.
func (c *Catalog) Validate(network string, dataAmountMB int, claimedPrice decimal.Decimal) BundleValidation {
	result := BundleValidation{ClaimedPrice: claimedPrice}

	n, ok := models.ParseNetwork(network)
	if !ok {
		result.Reason = ReasonUnknownNetwork
		return result
	}
	result.Network = n

	if fixed, ok := c.fixedPrice[n]; ok {
		result.CanonicalPrice = fixed
		if !claimedPrice.Round(2).Equal(fixed.Round(2)) {
			result.Reason = ReasonPriceMismatch
			return result
		}
		result.Valid = true
		return result
	}

	table, ok := c.bundles[n]
	if !ok {
		result.Reason = ReasonUnknownNetwork
		return result
	}

	canonical, ok := table[dataAmountMB]
	if !ok {
		result.Reason = ReasonInvalidDataAmount
		return result
	}
	result.CanonicalPrice = canonical

	if claimedPrice.Sub(canonical).Abs().GreaterThan(PriceTolerance) {
		result.Reason = ReasonPriceMismatch
		return result
	}

	result.Valid = true
	return result
}
