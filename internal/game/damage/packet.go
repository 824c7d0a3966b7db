// Package damage aggregates multi-source damage through per-element
// mitigation stats into a single scalar result.
package damage

// PacketFlags is an independent bitset carried on a packet. The resolver
// never interprets it; it is opaque payload for the caller's own rules
// (dodge checks, reflection, crit presentation).
type PacketFlags uint32

const (
	FlagCritical PacketFlags = 1 << iota
	FlagTrueDamage
	FlagDodgeable
	FlagBlockable
	FlagReflectable
)

// Has reports whether every bit in flag is set.
func (f PacketFlags) Has(flag PacketFlags) bool {
	return f&flag == flag
}

// Packet is one incoming damage amount tagged with its element.
type Packet struct {
	// ElementID identifies the damage category (fire, physical, ...) used
	// to look up the relevant mitigation stat.
	ElementID int32
	// Amount is the pre-mitigation damage.
	Amount float64
	// Flags is opaque caller payload.
	Flags PacketFlags
}
