package leaderboard

import (
	"strings"
	"testing"

	"clicker/bot/common"
	"clicker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardEmbed_MedalsOnTopThree(t *testing.T) {
	lb := &models.LeaderboardView{
		Direction: models.SortDescending,
		Entries: []models.LeaderboardEntry{
			{Position: 0, Username: "alice", Counter: 50},
			{Position: 1, Username: "bob", Counter: 30},
			{Position: 2, Username: "carol", Counter: 20},
			{Position: 3, Username: "dave", Counter: 10},
		},
		ViewerRank: 2,
		TotalUsers: 4,
	}

	embed := leaderboardEmbed(lb)

	lines := strings.Split(embed.Description, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "🥇 alice: **50**", lines[0])
	assert.Equal(t, "🥈 bob: **30**", lines[1])
	assert.Equal(t, "🥉 carol: **20**", lines[2])
	assert.Equal(t, "dave: **10**", lines[3])
	assert.Equal(t, "You are #2 on the leaderboard.", embed.Footer.Text)
}

func TestLeaderboardEmbed_MedalsFollowPagePositions(t *testing.T) {
	// An ascending page still decorates its own top three rows
	lb := &models.LeaderboardView{
		Direction: models.SortAscending,
		Entries: []models.LeaderboardEntry{
			{Position: 0, Username: "dave", Counter: 10},
			{Position: 1, Username: "carol", Counter: 20},
		},
		ViewerRank: 1,
		TotalUsers: 4,
	}

	embed := leaderboardEmbed(lb)

	assert.True(t, strings.HasPrefix(embed.Description, "🥇 dave"))
	assert.Contains(t, embed.Description, "🥈 carol")
}

func TestLeaderboardEmbed_UnrankedViewerFooter(t *testing.T) {
	lb := &models.LeaderboardView{
		Entries: []models.LeaderboardEntry{
			{Position: 0, Username: "alice", Counter: 50},
		},
		ViewerRank: 0,
		TotalUsers: 1,
	}

	embed := leaderboardEmbed(lb)

	assert.Equal(t, "You are not on the leaderboard.", embed.Footer.Text)
}

func TestLeaderboardEmbed_EmptyBoard(t *testing.T) {
	lb := &models.LeaderboardView{}

	embed := leaderboardEmbed(lb)

	assert.Equal(t, "Nobody has played yet.", embed.Description)
	assert.Equal(t, common.DefaultAvatarURL, embed.Thumbnail.URL)
}

func TestLeaderboardEmbed_ThumbnailFromFirstEntry(t *testing.T) {
	lb := &models.LeaderboardView{
		Entries: []models.LeaderboardEntry{
			{Position: 0, Username: "alice", AvatarURL: "https://cdn.example/alice.png", Counter: 50},
		},
		ViewerRank: 1,
		TotalUsers: 1,
	}

	embed := leaderboardEmbed(lb)

	assert.Equal(t, "https://cdn.example/alice.png", embed.Thumbnail.URL)
}
