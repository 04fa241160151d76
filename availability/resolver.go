// Package availability decides whether catalog and special items can be ordered right now.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
)

// ReasonKind explains why an item is not orderable
type ReasonKind string

const (
	ReasonNone              ReasonKind = ""
	ReasonScheduleEnded     ReasonKind = "schedule_ended"
	ReasonNotScheduledToday ReasonKind = "not_scheduled_today"
	ReasonSoldOut           ReasonKind = "sold_out"
	ReasonPaused            ReasonKind = "paused"
	ReasonUnavailable       ReasonKind = "unavailable"
	ReasonDeleted           ReasonKind = "deleted"
)

// ScheduleRelated reports whether the reason comes from a time window
func (r ReasonKind) ScheduleRelated() bool {
	return r == ReasonScheduleEnded || r == ReasonNotScheduledToday
}

// Verdict is the outcome for one item
type Verdict struct {
	Orderable bool
	Reason    ReasonKind
	Detail    string
}

func orderable() Verdict { return Verdict{Orderable: true} }

func blocked(reason ReasonKind, detail string) Verdict {
	return Verdict{Reason: reason, Detail: detail}
}

// Resolver evaluates schedules in the restaurant's local time zone
type Resolver struct {
	loc *time.Location
}

// NewResolver creates a resolver; a nil location means UTC
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{loc: loc}
}

// Location returns the zone schedules are evaluated in
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// parseClock turns "HH:MM" into minutes after midnight
func parseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// IsWithinSchedule reports whether now's clock time is inside [start, end].
// A window whose end is before its start wraps past midnight.
func IsWithinSchedule(start, end string, now time.Time) bool {
	s, ok := parseClock(start)
	if !ok {
		return false
	}
	e, ok := parseClock(end)
	if !ok {
		return false
	}
	cur := now.Hour()*60 + now.Minute()
	if e < s {
		return cur >= s || cur <= e
	}
	return cur >= s && cur <= e
}

// todayWindow returns the window configured for now's weekday, if any
func todayWindow(sched models.Schedule, weekday int) (start, end string, ok bool) {
	switch sched.Type {
	case models.ScheduleCustom:
		for _, d := range sched.CustomDays {
			if d.Day == weekday && d.Enabled {
				return d.StartTime, d.EndTime, true
			}
		}
		return "", "", false
	default:
		if len(sched.Days) > 0 && !containsDay(sched.Days, weekday) {
			return "", "", false
		}
		return sched.StartTime, sched.EndTime, true
	}
}

func containsDay(days []int, weekday int) bool {
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}

// CategoryActive reports whether the category has an enabled schedule that is open now
func (r *Resolver) CategoryActive(cat models.Category, now time.Time) bool {
	if !cat.Schedule.Enabled {
		return false
	}
	local := now.In(r.loc)
	start, end, ok := todayWindow(cat.Schedule, int(local.Weekday()))
	if !ok {
		return false
	}
	return IsWithinSchedule(start, end, local)
}

// categoryLockReason explains why an enabled schedule is closed now
func (r *Resolver) categoryLockReason(cat models.Category, now time.Time) Verdict {
	local := now.In(r.loc)
	start, end, ok := todayWindow(cat.Schedule, int(local.Weekday()))
	if !ok {
		return blocked(ReasonNotScheduledToday, fmt.Sprintf("%s is not served today", cat.Name))
	}
	return blocked(ReasonScheduleEnded, fmt.Sprintf("%s is served %s - %s", cat.Name, start, end))
}

// CategoryOpen reports whether a category is currently browsable
func (r *Resolver) CategoryOpen(cat models.Category, now time.Time) bool {
	if cat.IsSoldOut {
		return false
	}
	if cat.Schedule.Enabled {
		return r.CategoryActive(cat, now)
	}
	return !cat.IsPaused
}

// Item applies the catalog item rule: base availability, sold-out categories, then
// scheduled-active over scheduled-locked over default-active categories.
func (r *Resolver) Item(item models.CatalogItem, cats []models.Category, now time.Time) Verdict {
	if !item.BaseAvailable {
		return blocked(ReasonUnavailable, fmt.Sprintf("%s is currently unavailable", item.Name))
	}
	if len(cats) == 0 {
		return blocked(ReasonUnavailable, fmt.Sprintf("%s is not on the menu right now", item.Name))
	}

	allSoldOut := true
	for _, c := range cats {
		if !c.IsSoldOut {
			allSoldOut = false
			break
		}
	}
	if allSoldOut {
		return blocked(ReasonSoldOut, fmt.Sprintf("%s is sold out", item.Name))
	}

	var locked *models.Category
	for i, c := range cats {
		if c.Schedule.Enabled {
			if r.CategoryActive(c, now) {
				return orderable()
			}
			if locked == nil {
				locked = &cats[i]
			}
		}
	}
	if locked != nil {
		v := r.categoryLockReason(*locked, now)
		v.Detail = fmt.Sprintf("%s (%s)", item.Name, v.Detail)
		return v
	}

	for _, c := range cats {
		if !c.IsPaused && !c.IsSoldOut {
			return orderable()
		}
	}
	return blocked(ReasonPaused, fmt.Sprintf("%s is paused for now", item.Name))
}

// Special applies the special item rule: not paused, available, active today and
// inside the shared specials window.
func (r *Resolver) Special(item models.SpecialItem, window models.TimeWindow, now time.Time) Verdict {
	if item.Paused {
		return blocked(ReasonPaused, fmt.Sprintf("%s is paused for now", item.Name))
	}
	if !item.Available {
		return blocked(ReasonUnavailable, fmt.Sprintf("%s is currently unavailable", item.Name))
	}
	local := now.In(r.loc)
	if !item.ActiveOn(int(local.Weekday())) {
		return blocked(ReasonNotScheduledToday, fmt.Sprintf("%s is not available today", item.Name))
	}
	if window.StartTime != "" && window.EndTime != "" && !IsWithinSchedule(window.StartTime, window.EndTime, local) {
		return blocked(ReasonScheduleEnded, fmt.Sprintf("%s is served %s - %s", item.Name, window.StartTime, window.EndTime))
	}
	return orderable()
}

// CatalogItem resolves an item against the snapshot's categories
func (r *Resolver) CatalogItem(snap *models.Snapshot, item models.CatalogItem, now time.Time) Verdict {
	return r.Item(item, snap.CategoriesOf(item), now)
}

// LineVerdict pairs a cart line with its availability
type LineVerdict struct {
	Index   int
	Line    models.CartLine
	Name    string
	Verdict Verdict
}

// Cart checks every cart line against the current snapshot
func (r *Resolver) Cart(lines []models.CartLine, snap *models.Snapshot, now time.Time) []LineVerdict {
	out := make([]LineVerdict, 0, len(lines))
	for i, line := range lines {
		lv := LineVerdict{Index: i, Line: line}
		switch line.Kind {
		case models.LineCatalogItem:
			item, ok := snap.Item(line.ItemID)
			if !ok {
				lv.Name = line.ItemID
				lv.Verdict = blocked(ReasonDeleted, "item is no longer on the menu")
				break
			}
			lv.Name = item.Name
			lv.Verdict = r.CatalogItem(snap, item, now)
		case models.LineSpecialItem:
			lv.Name = line.Name
			item, ok := snap.Special(line.ItemID)
			if !ok {
				lv.Verdict = blocked(ReasonDeleted, fmt.Sprintf("%s is no longer on the menu", line.Name))
				break
			}
			lv.Name = item.Name
			lv.Verdict = r.Special(item, snap.SpecialsWindow, now)
		default:
			lv.Name = line.ItemID
			lv.Verdict = blocked(ReasonUnavailable, "unknown cart line")
		}
		out = append(out, lv)
	}
	return out
}

// Unavailable filters verdicts down to the lines that cannot be ordered
func Unavailable(verdicts []LineVerdict) []LineVerdict {
	var out []LineVerdict
	for _, v := range verdicts {
		if !v.Verdict.Orderable {
			out = append(out, v)
		}
	}
	return out
}

// Group buckets failures the way customers are told about them
func Group(verdicts []LineVerdict) map[ReasonKind][]LineVerdict {
	groups := make(map[ReasonKind][]LineVerdict)
	for _, v := range verdicts {
		if v.Verdict.Orderable {
			continue
		}
		key := v.Verdict.Reason
		switch key {
		case ReasonScheduleEnded, ReasonNotScheduledToday, ReasonSoldOut:
		default:
			key = ReasonUnavailable
		}
		groups[key] = append(groups[key], v)
	}
	return groups
}
