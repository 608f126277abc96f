package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
)

const defaultWalkTime = "09:00"

// nextScheduledDate returns the first occurrence of the subscription's
// walk time strictly after "from".
func nextScheduledDate(subType string, customDays []int, timeStart string, from time.Time) time.Time {
	hour, minute := parseWalkTime(timeStart)

	day := time.Date(from.Year(), from.Month(), from.Day(), hour, minute, 0, 0, from.Location())
	for i := 0; i < 8; i++ {
		if day.After(from) && dayMatches(subType, customDays, day.Weekday()) {
			return day
		}
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func dayMatches(subType string, customDays []int, weekday time.Weekday) bool {
	switch subType {
	case model.SubscriptionDaily:
		return true
	case model.SubscriptionWeekdays:
		return weekday >= time.Monday && weekday <= time.Friday
	case model.SubscriptionWeekends:
		return weekday == time.Saturday || weekday == time.Sunday
	case model.SubscriptionCustom:
		for _, d := range customDays {
			if time.Weekday(d) == weekday {
				return true
			}
		}
	}
	return false
}

func parseWalkTime(timeStart string) (hour, minute int) {
	if timeStart == "" {
		timeStart = defaultWalkTime
	}
	parts := strings.SplitN(timeStart, ":", 2)
	if len(parts) != 2 {
		return 9, 0
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 9, 0
	}
	return h, m
}

func validWalkTime(s string) bool {
	if s == "" {
		return true
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	return err1 == nil && err2 == nil && h >= 0 && h <= 23 && m >= 0 && m <= 59
}

var subscriptionDurations = map[int]bool{15: true, 30: true, 45: true, 60: true}

func validateSubscription(subType string, customDays []int, durationMinutes int, timeStart, timeEnd, walkerPreference string, advanceNotice int) error {
	switch subType {
	case model.SubscriptionDaily, model.SubscriptionWeekdays, model.SubscriptionWeekends:
	case model.SubscriptionCustom:
		if len(customDays) == 0 {
			return fmt.Errorf("custom subscription needs at least one day: %w", myerrors.ErrValidation)
		}
		for _, d := range customDays {
			if d < 0 || d > 6 {
				return fmt.Errorf("custom day %d out of range: %w", d, myerrors.ErrValidation)
			}
		}
	default:
		return fmt.Errorf("unknown subscription type %q: %w", subType, myerrors.ErrValidation)
	}

	if !subscriptionDurations[durationMinutes] {
		return fmt.Errorf("subscription duration must be 15, 30, 45 or 60: %w", myerrors.ErrValidation)
	}
	if !validWalkTime(timeStart) || !validWalkTime(timeEnd) {
		return fmt.Errorf("time range must be HH:MM: %w", myerrors.ErrValidation)
	}

	switch walkerPreference {
	case "", model.WalkerPreferenceAny, model.WalkerPreferenceSameWalker, model.WalkerPreferenceRated4Plus:
	default:
		return fmt.Errorf("unknown walker preference %q: %w", walkerPreference, myerrors.ErrValidation)
	}

	if advanceNotice < 0 || advanceNotice > 180 {
		return fmt.Errorf("advance notice must be 0-180 minutes: %w", myerrors.ErrValidation)
	}
	return nil
}
