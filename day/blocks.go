package day

// ActivitiesForHour returns the activities covering the given hour of day.
func ActivitiesForHour(activities []Activity, hour int) []Activity {
	var result []Activity
	for _, a := range activities {
		if a.Covers(hour) {
			result = append(result, a)
		}
	}
	return result
}

// TimeBlocks lays activities out on a 24-hour grid. Overnight hours past
// midnight wrap onto the morning blocks.
func TimeBlocks(activities []Activity) [HoursPerDay]TimeBlock {
	var blocks [HoursPerDay]TimeBlock
	for h := range blocks {
		blocks[h].Hour = h
	}
	for i := range activities {
		a := activities[i]
		for h := a.StartTime; h < a.EndTime; h++ {
			idx := ((h % HoursPerDay) + HoursPerDay) % HoursPerDay
			blocks[idx].Activity = &a
		}
	}
	return blocks
}
