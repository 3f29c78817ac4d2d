package domain

import "time"

// WeekOf returns the ISO 8601 year and week a timestamp falls in. All weekly
// cap bookkeeping uses ISO weeks so the Sunday/Monday boundary is unambiguous.
func WeekOf(t time.Time) (year, week int) {
	return t.UTC().ISOWeek()
}

// WeeklySlotConsumed reports whether the named player has already spent their
// one challenge-or-defense slot for the given ISO week. Only accepted or
// completed records consume a slot; a pending or declined challenge must not
// punish a player for an opponent's decision.
func WeeklySlotConsumed(playerName string, year, week int, records []*ChallengeRecord) bool {
	for _, r := range records {
		if r.ISOYear == year && r.ISOWeek == week && r.ConsumesWeeklySlot() && r.Involves(playerName) {
			return true
		}
	}
	return false
}

// PendingChallengeFor returns the defender's pending challenge for the given
// ISO week, if any. At most one should exist at a time; with historical data
// the oldest pending record wins.
func PendingChallengeFor(defenderName string, year, week int, records []*ChallengeRecord) *ChallengeRecord {
	var pending *ChallengeRecord
	for _, r := range records {
		if r.ISOYear != year || r.ISOWeek != week || !r.Status.IsPending() {
			continue
		}
		if !SameName(r.DefenderName, defenderName) {
			continue
		}
		if pending == nil || r.CreatedAt.Before(pending.CreatedAt) {
			pending = r
		}
	}
	return pending
}
