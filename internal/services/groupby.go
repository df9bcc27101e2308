package services

import (
	"slices"

	"github.com/RoaringBitmap/roaring"
	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/dataset"
	"ecommerce-dashboard/internal/models"
)

// accumulator folds the rows of one group into a value.
type accumulator[V any] interface {
	add(tx *models.Transaction)
	result() V
}

type group[K comparable, V any] struct {
	key   K
	value V
}

// groupBy buckets rows by key and folds each bucket with a fresh accumulator.
// Groups come back in order of first occurrence.
func groupBy[K comparable, V any](t *dataset.Table, key func(*models.Transaction) K, newAcc func() accumulator[V]) []group[K, V] {
	return groupWhere(t, nil, key, newAcc)
}

// groupWhere is groupBy over the rows accepted by keep; a nil keep accepts
// every row.
func groupWhere[K comparable, V any](t *dataset.Table, keep func(*models.Transaction) bool, key func(*models.Transaction) K, newAcc func() accumulator[V]) []group[K, V] {
	index := make(map[K]int)
	var keys []K
	var accs []accumulator[V]

	t.Each(func(tx *models.Transaction) {
		if keep != nil && !keep(tx) {
			return
		}
		k := key(tx)
		i, ok := index[k]
		if !ok {
			i = len(keys)
			index[k] = i
			keys = append(keys, k)
			accs = append(accs, newAcc())
		}
		accs[i].add(tx)
	})

	out := make([]group[K, V], len(keys))
	for i, k := range keys {
		out[i] = group[K, V]{key: k, value: accs[i].result()}
	}
	return out
}

// sortDesc orders groups by descending value. Equal values keep their
// first-occurrence order.
func sortDesc[K comparable, V any](groups []group[K, V], cmp func(a, b V) int) {
	slices.SortStableFunc(groups, func(a, b group[K, V]) int {
		return cmp(b.value, a.value)
	})
}

func cmpInt(a, b int) int { return a - b }

func cmpDecimal(a, b decimal.Decimal) int { return a.Cmp(b) }

type countAcc struct{ n int }

func (c *countAcc) add(*models.Transaction) { c.n++ }
func (c *countAcc) result() int            { return c.n }

func rowCount() func() accumulator[int] {
	return func() accumulator[int] { return &countAcc{} }
}

// interner hands out dense ids so string values fit a roaring bitmap.
type interner map[string]uint32

func (in interner) id(s string) uint32 {
	if v, ok := in[s]; ok {
		return v
	}
	v := uint32(len(in))
	in[s] = v
	return v
}

type distinctAcc struct {
	ids   interner
	field func(*models.Transaction) string
	seen  *roaring.Bitmap
}

func (d *distinctAcc) add(tx *models.Transaction) { d.seen.Add(d.ids.id(d.field(tx))) }
func (d *distinctAcc) result() int               { return int(d.seen.GetCardinality()) }

// distinctCount counts unique values of field per group. The id space is
// shared by all groups of one groupBy call.
func distinctCount(field func(*models.Transaction) string) func() accumulator[int] {
	ids := make(interner)
	return func() accumulator[int] {
		return &distinctAcc{ids: ids, field: field, seen: roaring.New()}
	}
}

type sumAcc struct {
	field func(*models.Transaction) decimal.Decimal
	total decimal.Decimal
}

func (s *sumAcc) add(tx *models.Transaction) { s.total = s.total.Add(s.field(tx)) }
func (s *sumAcc) result() decimal.Decimal   { return s.total }

func sum(field func(*models.Transaction) decimal.Decimal) func() accumulator[decimal.Decimal] {
	return func() accumulator[decimal.Decimal] {
		return &sumAcc{field: field, total: decimal.Zero}
	}
}

type pair[A, B any] struct {
	first  A
	second B
}

type pairAcc[A, B any] struct {
	a accumulator[A]
	b accumulator[B]
}

func (p *pairAcc[A, B]) add(tx *models.Transaction) {
	p.a.add(tx)
	p.b.add(tx)
}

func (p *pairAcc[A, B]) result() pair[A, B] {
	return pair[A, B]{first: p.a.result(), second: p.b.result()}
}

// both runs two accumulators over the same group.
func both[A, B any](a func() accumulator[A], b func() accumulator[B]) func() accumulator[pair[A, B]] {
	return func() accumulator[pair[A, B]] {
		return &pairAcc[A, B]{a: a(), b: b()}
	}
}
