package alloc

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/ndkit/internal/format"
)

// DefinePool returns the pool recorded under name, naming the next free
// table entry if there is none yet.
func (a *Allocator) DefinePool(name string) (Pool, error) {
	if name == "" || len(name) > format.PoolNameMax {
		return PoolInvalid, errors.Wrapf(ErrBadPool, "name %q", name)
	}
	count := a.s.PoolCount()
	for i := 1; i < count; i++ {
		if a.s.PoolName(i) == name {
			return Pool(i), nil
		}
	}
	next := max(count, int(PoolRecord)+1)
	if next > int(MaxPool) {
		return PoolInvalid, errors.Wrapf(ErrBadPool, "pool table full, cannot define %q", name)
	}
	if err := a.s.SetPoolName(next, name); err != nil {
		return PoolInvalid, err
	}
	return Pool(next), nil
}

// PoolName returns the recorded name of p, or "" if p is undefined.
func (a *Allocator) PoolName(p Pool) string {
	return a.s.PoolName(int(p))
}

// Pools lists every defined pool in table order.
func (a *Allocator) Pools() []Pool {
	count := a.s.PoolCount()
	out := make([]Pool, 0, count)
	for i := 1; i < count; i++ {
		if a.s.PoolName(i) != "" {
			out = append(out, Pool(i))
		}
	}
	return out
}
