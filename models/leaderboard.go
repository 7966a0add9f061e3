package models

// SortDirection orders leaderboard pages by counter
type SortDirection int

const (
	SortDescending SortDirection = iota
	SortAscending
)

func (d SortDirection) String() string {
	if d == SortAscending {
		return "ascending"
	}
	return "descending"
}

// Toggle returns the opposite direction
func (d SortDirection) Toggle() SortDirection {
	if d == SortAscending {
		return SortDescending
	}
	return SortAscending
}

// LeaderboardEntry is one row of a rendered leaderboard page
type LeaderboardEntry struct {
	Position  int // 0-based position within the page
	Username  string
	AvatarURL string
	Counter   int64
}

// LeaderboardView is the render-ready leaderboard model.
// ViewerRank is the invoking user's 1-based position when all records are
// ordered by descending counter; 0 means the viewer has no record.
type LeaderboardView struct {
	Direction  SortDirection
	Entries    []LeaderboardEntry
	ViewerRank int
	TotalUsers int
}

// Ranked reports whether the viewer appears on the leaderboard at all
func (v *LeaderboardView) Ranked() bool {
	return v.ViewerRank > 0
}
