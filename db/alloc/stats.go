package alloc

// Stats returns a snapshot of the accounting of every pool that has been used.
func (a *Allocator) Stats() Stats {
	out := Stats{Pools: make(map[Pool]PoolStats, len(a.stats))}
	for p, st := range a.stats {
		out.Pools[p] = *st
		out.Total.add(*st)
	}
	return out
}

// PoolStats returns the accounting of one pool.
func (a *Allocator) PoolStats(p Pool) PoolStats {
	if st := a.stats[p]; st != nil {
		return *st
	}
	return PoolStats{}
}

// Classes returns the name of the size class configuration in use.
func (a *Allocator) Classes() string {
	return a.table.String()
}
