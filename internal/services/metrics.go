package services

import (
	"math"
	"sort"
	"time"
	"unicode"
	"unicode/utf8"
)

// Metric primitives. Everything here is a pure function over record sets the
// store has already scoped to one organisation; the caller supplies "now" so
// results are reproducible.

const dateLayout = "2006-01-02"

// CountInWindow counts timestamps inside the closed-open window [start, end).
// A zero start or end leaves that side unbounded, so two zero bounds count
// the whole set.
func CountInWindow(times []time.Time, start, end time.Time) int {
	n := 0
	for _, t := range times {
		if !start.IsZero() && t.Before(start) {
			continue
		}
		if !end.IsZero() && !t.Before(end) {
			continue
		}
		n++
	}
	return n
}

// CountInRange counts timestamps inside the closed range [start, end], the
// matching rule used for caller-supplied date ranges.
func CountInRange(times []time.Time, start, end time.Time) int {
	n := 0
	for _, t := range times {
		if inRange(t, start, end) {
			n++
		}
	}
	return n
}

func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

// GrowthPercentage is the rounded relative change between two period counts.
// A zero previous period reads as 100% growth when anything appeared, 0%
// otherwise; "appeared from nothing" is a deliberate convention, not a
// division-by-zero patch.
func GrowthPercentage(current, previous int) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

// PercentageOfTotal returns round(count/total*100), and 0 for an empty total.
func PercentageOfTotal(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// DailyBucket is one day of a fixed-length daily series. Day is the bucket's
// UTC midnight, so callers needing the weekday don't re-parse Date.
type DailyBucket struct {
	Date  string
	Day   time.Time
	Count int
}

// DailyBucketSeries buckets timestamps into exactly `days` calendar days
// ending on now's UTC date, oldest first. Days without records still appear
// with a zero count; downstream charts assume the fixed length.
func DailyBucketSeries(times []time.Time, now time.Time, days int) []DailyBucket {
	counts := make(map[string]int)
	for _, t := range times {
		counts[t.UTC().Format(dateLayout)]++
	}
	series := make([]DailyBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.UTC().AddDate(0, 0, -i)
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		date := day.Format(dateLayout)
		series = append(series, DailyBucket{Date: date, Day: day, Count: counts[date]})
	}
	return series
}

// Group is one ranked bucket from GroupAndRank.
type Group struct {
	Key   string
	Count int
}

// GroupAndRank counts occurrences per key, sorts descending by count and
// returns the top limit groups. Ties keep first-encounter order (the sort is
// stable over insertion order). limit <= 0 means no cap.
func GroupAndRank(keys []string, limit int) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, k := range keys {
		if i, ok := index[k]; ok {
			groups[i].Count++
			continue
		}
		index[k] = len(groups)
		groups = append(groups, Group{Key: k, Count: 1})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// TitleCase upper-cases the first letter only, leaving the rest as stored
// ("product" -> "Product", "ux" -> "Ux").
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
