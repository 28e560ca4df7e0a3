/*
resolver.go - Keeps a day's activities mutually non-overlapping

PURPOSE:
  When a new activity is logged, any existing activity sharing an hour
  with it loses exactly the shared hours. Nothing else is removed.

CASES (n = incoming, e = existing, end exclusive):
  1. No overlap:        keep e
  2. n covers e:        drop e
  3. n inside e:        split e into [e.start, n.start) (keeps e.ID)
                        and [n.end, e.end) (fresh ID)
  4. n overlaps start:  trim e to [n.end, e.end)
  5. n overlaps end:    trim e to [e.start, n.start)

OVERNIGHT:
  Intervals live on an unwrapped axis (22 -> 30). Each existing activity
  is compared against n and against n shifted one day either way, so
  a 02:00 entry conflicts with last night's 22 -> 30 sleep.

The resolver does not insert n. Each existing activity is evaluated on
its own, so the result does not depend on their order.
*/
package day

// Resolve returns existing with every hour shared with n removed.
// newID supplies ids for the second half of split activities.
func Resolve(n Activity, existing []Activity, newID func() string) []Activity {
	result := make([]Activity, 0, len(existing))
	for _, e := range existing {
		result = append(result, resolveOne(n, e, newID)...)
	}
	return result
}

func resolveOne(n Activity, e Activity, newID func() string) []Activity {
	pieces := []Activity{e}
	for _, shift := range []int{0, HoursPerDay, -HoursPerDay} {
		shifted := n
		shifted.StartTime += shift
		shifted.EndTime += shift

		var next []Activity
		for _, p := range pieces {
			next = append(next, trim(shifted, p, newID)...)
		}
		pieces = next
	}

	for i := range pieces {
		pieces[i] = pieces[i].normalize()
	}
	return pieces
}

// trim applies the five resolution cases to a single pair.
func trim(n Activity, e Activity, newID func() string) []Activity {
	switch {
	case n.StartTime >= e.EndTime || n.EndTime <= e.StartTime:
		return []Activity{e}

	case n.StartTime <= e.StartTime && n.EndTime >= e.EndTime:
		return nil

	case n.StartTime > e.StartTime && n.EndTime < e.EndTime:
		before := e
		before.EndTime = n.StartTime
		after := e
		after.ID = newID()
		after.StartTime = n.EndTime
		return []Activity{before, after}

	case n.StartTime <= e.StartTime:
		e.StartTime = n.EndTime
		return []Activity{e}

	default:
		e.EndTime = n.StartTime
		return []Activity{e}
	}
}

// Overlaps reports whether two activities share any hour of day.
func Overlaps(a, b Activity) bool {
	for h := 0; h < HoursPerDay; h++ {
		if a.Covers(h) && b.Covers(h) {
			return true
		}
	}
	return false
}
