package fitness

// Record is implemented by every entity kept in a user collection.
type Record[T any] interface {
	RecordID() int64
	WithRecordID(id int64) T
}

type Order int

const (
	Append Order = iota
	Prepend
)

// Store applies add/remove/update to a collection slice. The input slice is never
// modified, every operation returns a fresh one.
type Store[T Record[T]] struct {
	ids   *IDGenerator
	order Order
}

func NewStore[T Record[T]](ids *IDGenerator, order Order) Store[T] {
	return Store[T]{
		ids:   ids,
		order: order,
	}
}

// Add assigns a new identifier to rec and inserts it according to the store order.
func (s Store[T]) Add(items []T, rec T) ([]T, T) {
	rec = rec.WithRecordID(s.ids.Next())

	out := make([]T, 0, len(items)+1)
	if s.order == Prepend {
		out = append(out, rec)
		out = append(out, items...)
	} else {
		out = append(out, items...)
		out = append(out, rec)
	}
	return out, rec
}

// Remove filters out the record with the given id. Unknown ids leave the
// collection unchanged.
func (s Store[T]) Remove(items []T, id int64) ([]T, bool) {
	out := make([]T, 0, len(items))
	removed := false
	for _, item := range items {
		if item.RecordID() == id {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}

// Update replaces the record with the given id by patch(record). The id is kept
// whatever patch returns.
func (s Store[T]) Update(items []T, id int64, patch func(T) T) ([]T, bool) {
	out := make([]T, len(items))
	copy(out, items)
	for i, item := range out {
		if item.RecordID() == id {
			out[i] = patch(item).WithRecordID(id)
			return out, true
		}
	}
	return out, false
}

func Find[T Record[T]](items []T, id int64) (T, bool) {
	for _, item := range items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Stores groups the per collection stores of a user.
type Stores struct {
	Workouts     Store[Workout]
	Measurements Store[BodyMeasurement]
	Records      Store[PersonalRecord]
	Photos       Store[ProgressPhoto]
}

func NewStores(ids *IDGenerator) Stores {
	return Stores{
		Workouts:     NewStore[Workout](ids, Prepend),
		Measurements: NewStore[BodyMeasurement](ids, Append),
		Records:      NewStore[PersonalRecord](ids, Append),
		Photos:       NewStore[ProgressPhoto](ids, Append),
	}
}
