package settlement

// TaxResult is the outcome of one tax stage.
type TaxResult struct {
	TaxAmount int64 `json:"tax_amount"`
	NetAmount int64 `json:"net_amount"`
	RateBps   int64 `json:"rate_bps"`
}

func taxAt(amount, rateBps int64) TaxResult {
	if amount <= 0 || rateBps <= 0 {
		return TaxResult{NetAmount: amount}
	}
	tax := applyBps(amount, rateBps)
	return TaxResult{TaxAmount: tax, NetAmount: amount - tax, RateBps: rateBps}
}

// RepeatWinnerRate returns the bracket rate for a prior win count.
func RepeatWinnerRate(priorWins int, brackets []WinBracket) int64 {
	var rate int64
	for _, b := range brackets {
		if priorWins >= b.MinWins {
			rate = b.RateBps
		}
	}
	return rate
}

// RepeatWinnerTax taxes a share by how many times the player already won in the window.
func RepeatWinnerTax(amount int64, priorWins int, brackets []WinBracket) TaxResult {
	return taxAt(amount, RepeatWinnerRate(priorWins, brackets))
}

// SoloTaxRate returns the tier rate for an amount.
func SoloTaxRate(amount int64, tiers []AmountTier) int64 {
	var rate int64
	for _, t := range tiers {
		if amount >= t.MinAmount {
			rate = t.RateBps
		}
	}
	return rate
}

// SoloTax taxes the amount of a player who had no teammate. Others pass through untaxed.
func SoloTax(amount int64, solo bool, tiers []AmountTier) TaxResult {
	if !solo {
		return TaxResult{NetAmount: amount}
	}
	return taxAt(amount, SoloTaxRate(amount, tiers))
}
