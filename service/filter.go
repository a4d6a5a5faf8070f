package service

import (
	"strings"
	"time"

	"github.com/erickaser0011-byte/royal-fox-admin/model"
)

// DateBucket names a time-window filter applied to submittedAt.
type DateBucket string

const (
	BucketAll       DateBucket = "all"
	BucketToday     DateBucket = "today"
	BucketYesterday DateBucket = "yesterday"
	BucketWeek      DateBucket = "week"
)

// FilterApplications computes the visible subset of apps. A record is
// included iff it matches the search term AND the date bucket. Input order
// is preserved and the input slice is never mutated.
//
// The term matches case-insensitively as a substring of first name, last
// name, email, or applicationId; missing fields never match. An empty term
// matches everything. Buckets "today" and "yesterday" compare calendar days
// in now's location; "week" is a continuous now-7d window, inclusive.
func FilterApplications(apps []model.Application, term string, bucket DateBucket, now time.Time) []model.Application {
	term = strings.ToLower(term)

	result := make([]model.Application, 0, len(apps))
	for _, app := range apps {
		if matchesTerm(&app, term) && matchesBucket(app.SubmittedAt.Time, bucket, now) {
			result = append(result, app)
		}
	}
	return result
}

func matchesTerm(app *model.Application, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(app.ApplicationID), term) {
		return true
	}
	if app.PersonalInfo == nil {
		return false
	}
	return strings.Contains(strings.ToLower(app.PersonalInfo.FirstName), term) ||
		strings.Contains(strings.ToLower(app.PersonalInfo.LastName), term) ||
		strings.Contains(strings.ToLower(app.PersonalInfo.Email), term)
}

func matchesBucket(submitted time.Time, bucket DateBucket, now time.Time) bool {
	switch bucket {
	case BucketToday:
		return sameDay(submitted.In(now.Location()), now)
	case BucketYesterday:
		return sameDay(submitted.In(now.Location()), now.AddDate(0, 0, -1))
	case BucketWeek:
		return !submitted.Before(now.AddDate(0, 0, -7))
	default:
		// "all" and any unknown bucket match everything.
		return true
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
