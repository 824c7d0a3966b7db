package damage

import (
	"github.com/cory-johannsen/statforge/internal/game/stat"
)

// MitigationConfig maps a damage element to the stat that mitigates it.
// The resolver calls it once per packet and never inspects how the mapping
// is built (table, switch, data asset).
type MitigationConfig interface {
	// MitigationStat returns the index of the mitigating stat within the
	// resolver's stat slice and whether mitigation is flat (subtractive)
	// or percentage (multiplicative). ok=false means the element is
	// unmapped and its damage passes through unmitigated.
	MitigationStat(elementID int32) (index int, flat bool, ok bool)
}

// BadBinding records a mitigation lookup that returned an index outside
// the stat slice. Only collected in strict mode.
type BadBinding struct {
	ElementID int32
	Index     int
}

// Report describes one resolution: the mitigated total plus per-packet
// accounting.
type Report struct {
	// Total is the sum of all post-mitigation amounts.
	Total float64
	// Mitigated counts packets that had mitigation applied.
	Mitigated int
	// Passthrough counts packets that passed at full amount.
	Passthrough int
	// BadBindings lists out-of-range mitigation lookups (strict mode only).
	// The affected packets still pass through; resolution never fails
	// mid-volley.
	BadBindings []BadBinding
}

// Resolver aggregates damage packets against a span of stats. The zero
// value is a lenient resolver.
//
// Stats are read through a fresh derivation of each mitigation stat's
// value; the slice itself is never written, so concurrent resolutions over
// disjoint (or even shared, read-only) stat slices are safe as long as no
// caller mutates the stats mid-call.
type Resolver struct {
	// Strict surfaces out-of-range mitigation indexes in Report.BadBindings
	// instead of silently treating them as unmapped. Either way the packet
	// passes through unmitigated.
	Strict bool
}

// Resolve returns the mitigated total for the volley.
//
// Per packet: a mapped element with an in-bounds index applies flat
// mitigation max(amount-mit, 0) or percentage mitigation amount*(1-mit).
// A negative percentage mitigation amplifies damage; that is an intentional
// allowance for vulnerability effects, not a bug. Unmapped or out-of-bounds
// lookups pass the packet through at full amount.
func (r Resolver) Resolve(stats []stat.Value, packets []Packet, cfg MitigationConfig) float64 {
	return r.ResolveReport(stats, packets, cfg).Total
}

// ResolveReport is Resolve with per-packet accounting.
//
// Postcondition: Mitigated + Passthrough == len(packets).
func (r Resolver) ResolveReport(stats []stat.Value, packets []Packet, cfg MitigationConfig) Report {
	var rep Report
	for _, p := range packets {
		idx, flat, ok := cfg.MitigationStat(p.ElementID)
		if !ok {
			rep.Total += p.Amount
			rep.Passthrough++
			continue
		}
		if idx < 0 || idx >= len(stats) {
			if r.Strict {
				rep.BadBindings = append(rep.BadBindings, BadBinding{ElementID: p.ElementID, Index: idx})
			}
			rep.Total += p.Amount
			rep.Passthrough++
			continue
		}
		mit := stats[idx].Derived()
		rep.Total += mitigate(p.Amount, mit, flat)
		rep.Mitigated++
	}
	return rep
}

func mitigate(amount, mit float64, flat bool) float64 {
	if flat {
		out := amount - mit
		if out < 0 {
			return 0
		}
		return out
	}
	return amount * (1 - mit)
}
