package lci

// AllInCost returns price_per_token_usd * (1 + ops_overhead_pct).
// It is undefined when the price is missing; a missing overhead uses the
// configured default (0.10 unless overridden).
func (s *Scorer) AllInCost(obs Observation) Maybe {
	price, ok := obs.PricePerTokenUSD.Get()
	if !ok {
		return None()
	}
	ops := obs.OpsOverheadPct.OrElse(s.cfg.DefaultOpsOverheadPct)
	return Some(price * (1 + ops))
}
