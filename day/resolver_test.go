package day_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/window/dayledger/day"
)

// =============================================================================
// RESOLUTION CASES
// =============================================================================

func TestResolve_NoOverlap_KeepsExisting(t *testing.T) {
	existing := []day.Activity{general("a", 8, 10)}

	got := day.Resolve(general("n", 10, 12), existing, sequentialIDs())

	require.Len(t, got, 1)
	assert.Equal(t, existing[0], got[0])
}

func TestResolve_FullCover_DropsExisting(t *testing.T) {
	existing := []day.Activity{general("a", 9, 11)}

	got := day.Resolve(general("n", 8, 12), existing, sequentialIDs())

	assert.Empty(t, got)
}

func TestResolve_ExactMatch_DropsExisting(t *testing.T) {
	got := day.Resolve(general("n", 9, 11), []day.Activity{general("a", 9, 11)}, sequentialIDs())
	assert.Empty(t, got)
}

func TestResolve_Inside_SplitsExisting(t *testing.T) {
	// GIVEN: 8 -> 12, WHEN: adding 9 -> 10
	existing := []day.Activity{general("a", 8, 12)}

	got := day.Resolve(general("n", 9, 10), existing, sequentialIDs())

	// THEN: 8 -> 9 keeps the id, 10 -> 12 gets a fresh one
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, [2]int{8, 9}, span(got[0]))
	assert.Equal(t, "gen-1", got[1].ID)
	assert.Equal(t, [2]int{10, 12}, span(got[1]))
	assert.Equal(t, got[0].Name, got[1].Name)
	assert.Equal(t, got[0].ExertionLevel, got[1].ExertionLevel)
}

func TestResolve_OverlapsStart_TrimsFront(t *testing.T) {
	got := day.Resolve(general("n", 7, 9), []day.Activity{general("a", 8, 12)}, sequentialIDs())

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, [2]int{9, 12}, span(got[0]))
}

func TestResolve_SameStart_TrimsFront(t *testing.T) {
	got := day.Resolve(general("n", 8, 9), []day.Activity{general("a", 8, 12)}, sequentialIDs())

	require.Len(t, got, 1)
	assert.Equal(t, [2]int{9, 12}, span(got[0]))
}

func TestResolve_OverlapsEnd_TrimsBack(t *testing.T) {
	got := day.Resolve(general("n", 11, 14), []day.Activity{general("a", 8, 12)}, sequentialIDs())

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, [2]int{8, 11}, span(got[0]))
}

func TestResolve_DoesNotInsertNewActivity(t *testing.T) {
	got := day.Resolve(general("n", 1, 2), nil, sequentialIDs())
	assert.Empty(t, got)
}

// =============================================================================
// OVERNIGHT
// =============================================================================

func TestResolve_EarlyMorningInsideOvernightSleep(t *testing.T) {
	// GIVEN: sleep 22:00 -> 06:00 stored as 22 -> 30
	existing := []day.Activity{sleep("s", 22, 30)}

	// WHEN: logging 02:00 -> 03:00
	got := day.Resolve(general("n", 2, 3), existing, sequentialIDs())

	// THEN: sleep keeps 22 -> 02 and 03 -> 06
	require.Len(t, got, 2)
	assert.Equal(t, "s", got[0].ID)
	assert.Equal(t, [2]int{22, 26}, span(got[0]))
	assert.Equal(t, [2]int{3, 6}, span(got[1]))
}

func TestResolve_OvernightNewActivity_TrimsMorning(t *testing.T) {
	existing := []day.Activity{general("early", 2, 3), general("late", 5, 8)}

	got := day.Resolve(sleep("s", 22, 30), existing, sequentialIDs())

	require.Len(t, got, 1)
	assert.Equal(t, "late", got[0].ID)
	assert.Equal(t, [2]int{6, 8}, span(got[0]))
}

func TestResolve_TrimToMidnight_Normalizes(t *testing.T) {
	got := day.Resolve(general("n", 22, 24), []day.Activity{sleep("s", 22, 30)}, sequentialIDs())

	require.Len(t, got, 1)
	assert.Equal(t, [2]int{0, 6}, span(got[0]))
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestResolve_OrderIndependent(t *testing.T) {
	a := general("a", 6, 9)
	b := general("b", 11, 15)
	n := general("n", 8, 12)

	forward := day.Resolve(n, []day.Activity{a, b}, sequentialIDs())
	backward := day.Resolve(n, []day.Activity{b, a}, sequentialIDs())

	assert.ElementsMatch(t, forward, backward)
}

func TestResolve_NoSharedHoursAndNothingElseLost(t *testing.T) {
	existing := []day.Activity{
		sleep("s", 0, 7),
		general("w", 8, 12),
		food("m", 13, day.FoodMeal),
		general("e", 18, 22),
	}
	before := coveredHours(existing)

	for start := 0; start < day.HoursPerDay; start++ {
		for length := 1; length <= 12; length++ {
			n := general("n", start, start+length)

			result := append(day.Resolve(n, existing, sequentialIDs()), n)

			for i := range result {
				for j := i + 1; j < len(result); j++ {
					require.Falsef(t, day.Overlaps(result[i], result[j]),
						"n=%v: %v overlaps %v", span(n), span(result[i]), span(result[j]))
				}
			}
			after := coveredHours(result)
			for h := range before {
				if !n.Covers(h) {
					require.Truef(t, after[h], "n=%v: hour %d lost", span(n), h)
				}
			}
		}
	}
}
