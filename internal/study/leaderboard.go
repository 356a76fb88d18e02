// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package study

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// LeaderboardSize caps how many users the leaderboard returns.
const LeaderboardSize = 20

// LeaderboardEntry is one user's aggregated study record. Streaks are
// computed from actual session history, not stored.
type LeaderboardEntry struct {
	UserID        ulid.ULID
	Name          string
	AvatarURL     string
	TotalStudy    time.Duration
	TotalSessions int
	CurrentStreak int
	LongestStreak int
}

// Streaks computes the current and longest run of consecutive study
// days. days must be distinct UTC days ordered most recent first, as
// returned by SessionRepository.StudyDays. The current streak counts
// back from today or yesterday; a last study day before yesterday
// means the streak is broken.
func Streaks(days []time.Time, now time.Time) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	today := now.UTC().Truncate(24 * time.Hour)

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		gap := days[i-1].Sub(days[i])
		if gap == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	// The newest run counts as current only if it reaches today or
	// yesterday.
	lead := today.Sub(days[0])
	if lead > 24*time.Hour {
		return 0, longest
	}

	current = 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			break
		}
		current++
	}
	return current, longest
}
