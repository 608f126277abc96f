package services

import (
	"errors"
	"testing"
	"time"

	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
)

func TestNextScheduledDate(t *testing.T) {
	// Monday 2026-09-07.
	monday8 := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	monday10 := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	friday10 := time.Date(2026, 9, 11, 10, 0, 0, 0, time.UTC)
	saturday8 := time.Date(2026, 9, 12, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		subType    string
		customDays []int
		timeStart  string
		from       time.Time
		want       time.Time
	}{
		{
			name:    "daily before walk time stays same day",
			subType: model.SubscriptionDaily, timeStart: "09:00", from: monday8,
			want: time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "daily after walk time moves to tomorrow",
			subType: model.SubscriptionDaily, timeStart: "09:00", from: monday10,
			want: time.Date(2026, 9, 8, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "weekdays skip the weekend",
			subType: model.SubscriptionWeekdays, timeStart: "09:00", from: friday10,
			want: time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "weekends pick saturday",
			subType: model.SubscriptionWeekends, timeStart: "09:00", from: friday10,
			want: time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "custom wednesday only",
			subType: model.SubscriptionCustom, customDays: []int{3}, timeStart: "18:30", from: monday8,
			want: time.Date(2026, 9, 9, 18, 30, 0, 0, time.UTC),
		},
		{
			name:    "empty time defaults to morning",
			subType: model.SubscriptionDaily, timeStart: "", from: saturday8,
			want: time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := nextScheduledDate(tc.subType, tc.customDays, tc.timeStart, tc.from)
			if !got.Equal(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidWalkTime(t *testing.T) {
	valid := []string{"", "00:00", "09:30", "23:59"}
	invalid := []string{"9:30", "24:00", "12:60", "noon", "12-30", "12:3"}

	for _, s := range valid {
		if !validWalkTime(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range invalid {
		if validWalkTime(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestValidateSubscription(t *testing.T) {
	tests := []struct {
		name       string
		subType    string
		customDays []int
		duration   int
		timeStart  string
		preference string
		notice     int
		wantErr    bool
	}{
		{"weekdays ok", model.SubscriptionWeekdays, nil, 30, "09:00", model.WalkerPreferenceAny, 30, false},
		{"custom ok", model.SubscriptionCustom, []int{1, 3, 5}, 45, "17:00", "", 0, false},
		{"custom without days", model.SubscriptionCustom, nil, 30, "09:00", "", 0, true},
		{"custom day out of range", model.SubscriptionCustom, []int{7}, 30, "09:00", "", 0, true},
		{"unknown type", "FORTNIGHTLY", nil, 30, "09:00", "", 0, true},
		{"odd duration", model.SubscriptionDaily, nil, 25, "09:00", "", 0, true},
		{"bad time", model.SubscriptionDaily, nil, 30, "9am", "", 0, true},
		{"unknown preference", model.SubscriptionDaily, nil, 30, "09:00", "TALLEST", 0, true},
		{"notice too long", model.SubscriptionDaily, nil, 30, "09:00", "", 300, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSubscription(tc.subType, tc.customDays, tc.duration, tc.timeStart, "", tc.preference, tc.notice)
			if tc.wantErr && !errors.Is(err, myerrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
