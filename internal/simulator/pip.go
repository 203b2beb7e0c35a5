package simulator

// pipValue is the account-currency value of one pip per lot, used for
// position sizing.
const pipValue = 10.0

// PipSize returns the conventional pip increment for a pair, inferred
// from its price level: JPY-quoted pairs trade above 10 and use 0.01,
// everything else 0.0001.
func PipSize(referencePrice float64) float64 {
	if referencePrice > 10 {
		return 0.01
	}
	return 0.0001
}

// PipsToPrice converts a pip count to a price difference.
func PipsToPrice(pips, referencePrice float64) float64 {
	return pips * PipSize(referencePrice)
}

// PriceToPips converts a price difference to pips.
func PriceToPips(priceDiff, referencePrice float64) float64 {
	return priceDiff / PipSize(referencePrice)
}
