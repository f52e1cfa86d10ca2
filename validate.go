package quantbin

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/quantbin/grid"
	"github.com/hupe1980/quantbin/internal/idset"
)

// Validate implements Index. It checks, for a quiescent index:
//
//   - every key level lies in [0, MaxLevel] and unused slots are 0
//   - the observed grid bounds cover every key
//   - every bucket is in descending size order and owns its clusters
//   - no bin ID appears twice among clusters or twice among residual bins
//   - no bin is both a cluster member and a residual bin
//   - the cluster counter matches the buckets
//
// All violations are reported together, joined with ErrCorruptIndex.
func (x *base) Validate() error {
	var errs []error
	clustered, residual := idset.Get(), idset.Get()
	defer idset.Put(clustered)
	defer idset.Put(residual)

	layout := x.q.Layout()
	observed := x.bounds.window()
	clusters := 0

	x.st.each(func(b *bucket) bool {
		errs = append(errs, x.validateKey(layout, observed, b.key)...)

		list := b.snapshot()
		for j, c := range list {
			if j > 0 && before(c, list[j-1]) {
				errs = append(errs, fmt.Errorf("bucket %v: cluster %d (size %d) after cluster %d (size %d)",
					b.key, c.ID(), c.Size(), list[j-1].ID(), list[j-1].Size()))
			}
			if c.home.Load() != b {
				errs = append(errs, fmt.Errorf("bucket %v: cluster %d belongs to another bucket", b.key, c.ID()))
			}
			for _, m := range c.Members() {
				if !clustered.AddNew(m.ID()) {
					errs = append(errs, fmt.Errorf("bin %d appears more than once", m.ID()))
				}
			}
		}
		clusters += len(list)
		return true
	})

	for _, r := range x.residual.snapshot() {
		if !residual.AddNew(r.ID()) {
			errs = append(errs, fmt.Errorf("residual bin %d appears more than once", r.ID()))
		}
	}
	if clustered.Intersects(residual) {
		residual.ForEach(func(id uint32) bool {
			if clustered.Contains(id) {
				errs = append(errs, fmt.Errorf("bin %d is both clustered and residual", id))
			}
			return true
		})
	}

	if n := x.ClusterCount(); n != clusters {
		errs = append(errs, fmt.Errorf("cluster count %d, buckets hold %d", n, clusters))
	}

	var err error
	if len(errs) > 0 {
		err = errors.Join(append([]error{ErrCorruptIndex}, errs...)...)
	}
	x.logger.LogValidate(context.Background(), err)
	return err
}

func (x *base) validateKey(layout grid.Layout, observed grid.Window, k grid.Key) []error {
	var errs []error
	for i, d := range layout {
		lvl := k[i]
		switch {
		case d == grid.Unused && lvl != 0:
			errs = append(errs, fmt.Errorf("key %v: unused slot %d has level %d", k, i, lvl))
		case lvl < 0 || lvl > x.q.MaxLevel(d):
			errs = append(errs, fmt.Errorf("key %v: %s level %d outside [0, %d]", k, d, lvl, x.q.MaxLevel(d)))
		case !observed[i].Contains(lvl):
			errs = append(errs, fmt.Errorf("key %v: slot %d outside observed bounds %v", k, i, observed[i]))
		}
	}
	return errs
}
