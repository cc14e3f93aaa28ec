package services

// Level progression: each level requires 100 XP more than the previous one,
// so the threshold for level n is 100 * n * (n-1) / 2 total XP.
const levelStepXP = 100

// LevelForXP derives a user's level from lifetime XP. Levels start at 1 and
// are never stored; deriving on read keeps them impossible to go stale.
func LevelForXP(xp int64) int {
	if xp < 0 {
		return 1
	}
	level := 1
	var threshold int64
	for {
		threshold += int64(levelStepXP * level)
		if xp < threshold {
			return level
		}
		level++
	}
}

// XPForNextLevel returns the total XP needed to reach the next level from
// the given XP amount.
func XPForNextLevel(xp int64) int64 {
	level := LevelForXP(xp)
	var threshold int64
	for n := 1; n <= level; n++ {
		threshold += int64(levelStepXP * n)
	}
	return threshold
}
