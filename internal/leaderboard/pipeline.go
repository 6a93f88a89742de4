package leaderboard

import (
	"log"
	"time"

	"github.com/sirdesai22/cp-leaderboard/internal/metrics"
)

// Solves after this hour on the day following the problem's posting no longer
// count. Rewards promptness and bounds the scoring window per problem.
const cutoffHour = 8

// Problem is a catalog row as the pipeline sees it: the code as registered
// (possibly with separators) and its posting time.
type Problem struct {
	Code     string
	PostedAt time.Time
}

// Solve is one successful submission, flattened with the member's handle.
type Solve struct {
	SubmissionID string
	UserID       string
	Handle       string
	ProblemCode  string
	SolvedAt     time.Time
}

// Entry is one leaderboard row.
type Entry struct {
	UserID      string `json:"userId"`
	Handle      string `json:"handle"`
	SolvedCount int    `json:"solvedCount"`
	TotalTimeMs int64  `json:"totalTimeMs"`
	Rank        int    `json:"rank"`
}

// Compute runs the whole pipeline in memory: index the in-window problems
// under their canonical codes, reduce submissions to first solves, drop the
// ones past their cutoff, aggregate and rank. Input solves must already be
// success-verdict only; everything else is filtered here.
func Compute(problems []Problem, solves []Solve, w Window, loc *time.Location) []Entry {
	idx := IndexProblems(problems, w)
	first := ReduceFirstSolves(solves, idx)
	return Rank(Score(first, idx, loc))
}

// IndexProblems maps canonical problem code -> posting time for problems
// inside the window. Problems with a zero posting time are skipped as
// malformed.
func IndexProblems(problems []Problem, w Window) map[string]time.Time {
	idx := make(map[string]time.Time, len(problems))
	for _, p := range problems {
		if p.PostedAt.IsZero() {
			metrics.MalformedRecords.Inc()
			log.Printf("skipping problem %q: no posting time", p.Code)
			continue
		}
		if !w.Contains(p.PostedAt) {
			continue
		}
		idx[Normalize(p.Code)] = p.PostedAt
	}
	return idx
}

type solveKey struct {
	userID string
	code   string
}

// ReduceFirstSolves collapses submissions to at most one solve per
// (user, canonical problem): the one with the earliest timestamp. Events for
// problems outside idx are dropped. Exact timestamp ties go to the smaller
// submission ID so reruns over the same data agree.
func ReduceFirstSolves(solves []Solve, idx map[string]time.Time) map[string][]Solve {
	first := make(map[solveKey]Solve)
	for _, s := range solves {
		code := Normalize(s.ProblemCode)
		if _, ok := idx[code]; !ok {
			continue
		}
		if s.SolvedAt.IsZero() {
			metrics.MalformedRecords.Inc()
			log.Printf("skipping submission %s: no solve time", s.SubmissionID)
			continue
		}
		s.ProblemCode = code
		k := solveKey{userID: s.UserID, code: code}
		prev, seen := first[k]
		if !seen || s.SolvedAt.Before(prev.SolvedAt) ||
			(s.SolvedAt.Equal(prev.SolvedAt) && s.SubmissionID < prev.SubmissionID) {
			first[k] = s
		}
	}

	byUser := make(map[string][]Solve)
	for k, s := range first {
		byUser[k.userID] = append(byUser[k.userID], s)
	}
	return byUser
}

// CutoffFor returns the last instant a solve for a problem still counts:
// the calendar day after postedAt, at 08:00 in loc. Inclusive.
func CutoffFor(postedAt time.Time, loc *time.Location) time.Time {
	d := postedAt.In(loc).AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), cutoffHour, 0, 0, 0, loc)
}

// Score applies the cutoff rule to each user's first solves and aggregates
// the survivors into unranked entries. Users left with zero valid solves
// produce no entry at all.
func Score(firstByUser map[string][]Solve, idx map[string]time.Time, loc *time.Location) []Entry {
	entries := make([]Entry, 0, len(firstByUser))
	for userID, solves := range firstByUser {
		var e Entry
		for _, s := range solves {
			posted, ok := idx[s.ProblemCode]
			if !ok {
				continue
			}
			if s.SolvedAt.After(CutoffFor(posted, loc)) {
				continue
			}
			e.SolvedCount++
			e.TotalTimeMs += s.SolvedAt.Sub(posted).Milliseconds()
			e.Handle = s.Handle
		}
		if e.SolvedCount == 0 {
			continue
		}
		e.UserID = userID
		entries = append(entries, e)
	}
	return entries
}
