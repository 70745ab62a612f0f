package assistant

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	// Wednesday, March 11, 2026
	now := time.Date(2026, time.March, 11, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		{
			name:  "slash numeric",
			value: "03/15/2026",
			want:  time.Date(2026, time.March, 15, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "dash numeric",
			value: "3-15-26",
			want:  time.Date(2026, time.March, 15, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "iso numeric",
			value: "2026-03-15",
			want:  time.Date(2026, time.March, 15, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "month day assumes current year",
			value: "March 15",
			want:  time.Date(2026, time.March, 15, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "weekday resolves to next occurrence",
			value: "Friday",
			want:  time.Date(2026, time.March, 13, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "weekday matching today advances a full week",
			value: "Wednesday",
			want:  time.Date(2026, time.March, 18, 0, 0, 0, 0, time.Local),
			ok:    true,
		},
		{
			name:  "invalid calendar day rejected",
			value: "02/31/2026",
			ok:    false,
		},
		{
			name:  "garbage",
			value: "not a date at all",
			ok:    false,
		},
		{
			name:  "empty",
			value: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseDate(tt.value, now)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.value, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestResolveRelative(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 11, 18, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		text string
		want time.Time
		ok   bool
	}{
		{
			name: "today",
			text: "finish the slides today",
			want: time.Date(2026, time.March, 11, 0, 0, 0, 0, time.Local),
			ok:   true,
		},
		{
			name: "tomorrow",
			text: "call the plumber tomorrow morning",
			want: time.Date(2026, time.March, 12, 0, 0, 0, 0, time.Local),
			ok:   true,
		},
		{
			name: "next week",
			text: "plan the offsite next week",
			want: time.Date(2026, time.March, 18, 0, 0, 0, 0, time.Local),
			ok:   true,
		},
		{
			name: "no cue",
			text: "finish the report by Friday",
			ok:   false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := resolveRelative(tt.text, now)
			if ok != tt.ok {
				t.Fatalf("resolveRelative(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("resolveRelative(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
