package domain

import "sort"

// PoolSnapshot is the set of addresses recorded in the refund pool's
// on-chain table. Used only as a comparison target.
type PoolSnapshot struct {
	PoolObjectID string
	TableID      string
	DeclaredSize int64 // size reported by the table itself
	Addresses    map[Address]struct{}
}

// Contains reports whether addr is recorded on chain.
func (s *PoolSnapshot) Contains(addr Address) bool {
	_, ok := s.Addresses[addr]
	return ok
}

// Len returns the number of distinct addresses.
func (s *PoolSnapshot) Len() int {
	return len(s.Addresses)
}

// SortedAddresses returns the addresses in lexical order.
func (s *PoolSnapshot) SortedAddresses() []Address {
	out := make([]Address, 0, len(s.Addresses))
	for a := range s.Addresses {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
