package db

import (
	"time"

	"github.com/nick-dorsch/taskdesk/pkg/models"
)

const dateLayout = "2006-01-02"

func utcDate(now time.Time) string {
	return now.UTC().Format(dateLayout)
}

func utcStamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339Nano)
}

// resolveCreation derives the completion fields for a task being created.
// A non-completed task keeps whatever explicit date was supplied and gets no
// timestamp. A completed task gets today's date unless an explicit one was
// given; the timestamp is always the current instant.
func resolveCreation(now time.Time, status models.TaskStatus, explicitDate *string) (*string, *string) {
	if status != models.TaskStatusCompleted {
		return explicitDate, nil
	}

	stamp := utcStamp(now)
	if explicitDate != nil {
		return explicitDate, &stamp
	}

	today := utcDate(now)
	return &today, &stamp
}

// resolveTransition derives the status and completion fields for a task
// update. Only an actual change of status counts as a transition; requesting
// the stored status again behaves like not requesting one at all.
//
// Entering completed overwrites both fields with current values, even when an
// explicit date was supplied. Leaving completed clears both unless an
// explicit date is given, in which case the date is taken verbatim and the
// stored timestamp survives. Without a transition, an explicit date replaces
// the stored one and the timestamp is untouched.
func resolveTransition(now time.Time, prev models.TaskStatus, requested *models.TaskStatus, explicitDate, storedDate, storedStamp *string) (models.TaskStatus, *string, *string) {
	status := prev
	if requested != nil {
		status = *requested
	}

	switch {
	case status == models.TaskStatusCompleted && prev != models.TaskStatusCompleted:
		today := utcDate(now)
		stamp := utcStamp(now)
		return status, &today, &stamp

	case status != models.TaskStatusCompleted && prev == models.TaskStatusCompleted:
		if explicitDate != nil {
			return status, explicitDate, storedStamp
		}
		return status, nil, nil

	default:
		if explicitDate != nil {
			return status, explicitDate, storedStamp
		}
		return status, storedDate, storedStamp
	}
}
