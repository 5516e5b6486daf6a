// Package logbuilder turns a simulator timeline into the per-calendar-day
// ELD log sheets a driver would actually sign: one 24-hour grid per date,
// split at midnight, with every gap filled OFF duty and a remarks column
// for the events that need one.
//
// BuildDailyLogs is a pure function: same timeline in, same logs out,
// every time. It touches no clock, no I/O, and holds no state between
// calls.
package logbuilder

import (
	"math"
	"sort"
	"time"

	"github.com/draymaster/tripplanner/internal/domain"
)

// clippedEvent is one event's contribution to a single calendar date: the
// slice of [StartTime, EndTime) that falls within that date's [00:00,
// 24:00) window.
type clippedEvent struct {
	status   domain.DutyStatus
	start    time.Time
	end      time.Time
	location string
	note     string
	kind     domain.StopKind
}

// BuildDailyLogs splits timeline at midnight boundaries and assembles one
// DailyLog per calendar date the trip touches, in chronological order.
func BuildDailyLogs(timeline []domain.TimelineEvent) []domain.DailyLog {
	if len(timeline) == 0 {
		return nil
	}

	perDay, dates := splitByDate(timeline)

	logs := make([]domain.DailyLog, 0, len(dates))
	for _, date := range dates {
		events := perDay[date]
		segments := toGridSegments(events, date)
		segments = fillGaps(segments)
		logs = append(logs, domain.DailyLog{
			Date:     date,
			Segments: segments,
			Totals:   sumTotals(segments),
			Remarks:  buildRemarks(events),
		})
	}
	return logs
}

// splitByDate breaks every timeline event at each midnight it spans and
// buckets the pieces by calendar date (YYYY-MM-DD, in the event's own
// location). dates is returned in chronological order.
func splitByDate(timeline []domain.TimelineEvent) (map[string][]clippedEvent, []string) {
	perDay := make(map[string][]clippedEvent)
	var dates []string

	for _, ev := range timeline {
		cur := ev.StartTime
		for cur.Before(ev.EndTime) {
			midnight := nextMidnight(cur)
			segEnd := ev.EndTime
			if midnight.Before(segEnd) {
				segEnd = midnight
			}

			key := cur.Format("2006-01-02")
			if _, seen := perDay[key]; !seen {
				dates = append(dates, key)
			}
			perDay[key] = append(perDay[key], clippedEvent{
				status:   ev.Status,
				start:    cur,
				end:      segEnd,
				location: ev.Location,
				note:     ev.Note,
				kind:     ev.Kind,
			})
			cur = segEnd
		}
	}

	sort.Strings(dates)
	return perDay, dates
}

func nextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// toGridSegments converts a date's clipped events into LogSegments with
// hour-of-day bounds, in time order.
func toGridSegments(events []clippedEvent, date string) []domain.LogSegment {
	sort.Slice(events, func(i, j int) bool { return events[i].start.Before(events[j].start) })

	midnight, err := time.ParseInLocation("2006-01-02", date, events[0].start.Location())
	if err != nil {
		midnight = events[0].start
	}

	segments := make([]domain.LogSegment, 0, len(events))
	for _, ev := range events {
		segments = append(segments, domain.LogSegment{
			Status:       ev.status,
			StartHour:    round2(hoursSince(midnight.In(ev.start.Location()), ev.start)),
			EndHour:      round2(hoursSince(midnight.In(ev.end.Location()), ev.end)),
			DurationMins: int(ev.end.Sub(ev.start).Minutes()),
		})
	}
	return segments
}

func hoursSince(midnight, t time.Time) float64 {
	return t.Sub(midnight).Hours()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// fillGaps inserts OFF-duty segments to cover any part of [0, 24) the
// actual events leave empty: before the first event, between events, and
// after the last event through end of day.
func fillGaps(segments []domain.LogSegment) []domain.LogSegment {
	filled := make([]domain.LogSegment, 0, len(segments)+2)
	cursor := 0.0

	for _, seg := range segments {
		if seg.StartHour > cursor {
			filled = append(filled, offGap(cursor, seg.StartHour))
		}
		filled = append(filled, seg)
		cursor = seg.EndHour
	}
	if cursor < 24 {
		filled = append(filled, offGap(cursor, 24))
	}
	return filled
}

func offGap(start, end float64) domain.LogSegment {
	return domain.LogSegment{
		Status:       domain.StatusOffDuty,
		StartHour:    start,
		EndHour:      end,
		DurationMins: int((end - start) * 60),
	}
}

// sumTotals adds up hours per duty status across a day's filled grid.
func sumTotals(segments []domain.LogSegment) map[domain.DutyStatus]float64 {
	totals := map[domain.DutyStatus]float64{
		domain.StatusOffDuty:    0,
		domain.StatusSleeper:    0,
		domain.StatusDriving:    0,
		domain.StatusOnDutyNotD: 0,
	}
	for _, seg := range segments {
		totals[seg.Status] += float64(seg.DurationMins) / 60
	}
	for status, total := range totals {
		totals[status] = round2(total)
	}
	return totals
}

// buildRemarks lists the events worth a remarks-column entry: pickups,
// dropoffs, fuel stops, breaks, and rests. Plain driving segments and
// gap-filled off-duty time (StopKindNone) carry no location worth
// recording.
func buildRemarks(events []clippedEvent) []domain.LogRemark {
	var remarks []domain.LogRemark
	for _, ev := range events {
		if ev.kind == domain.StopKindNone {
			continue
		}
		remarks = append(remarks, domain.LogRemark{
			Time:     ev.start.Format("15:04"),
			Location: ev.location,
			Note:     ev.note,
		})
	}
	return remarks
}
