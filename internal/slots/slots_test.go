package slots

import (
	"testing"
	"time"
)

// 09:00 through 20:00 inclusive at 15 minutes is 11h*4 steps plus the 20:00 slot.
func TestGenerate_DefaultDay(t *testing.T) {
	got := Generate()
	if len(got) != 45 {
		t.Fatalf("len=%d, want 45", len(got))
	}
	if got[0] != "9:00 AM" {
		t.Fatalf("first=%q", got[0])
	}
	if got[len(got)-1] != "8:00 PM" {
		t.Fatalf("last=%q", got[len(got)-1])
	}
	// spot checks around the noon boundary and padding
	want := map[int]string{1: "9:15 AM", 3: "9:45 AM", 11: "11:45 AM", 12: "12:00 PM", 13: "12:15 PM", 16: "1:00 PM", 43: "7:45 PM"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("got[%d]=%q, want %q", i, got[i], w)
		}
	}
}

func TestGenerate_FreshSliceEachCall(t *testing.T) {
	a := Generate()
	a[0] = "mutated"
	if b := Generate(); b[0] != "9:00 AM" {
		t.Fatalf("Generate shares state across calls: %q", b[0])
	}
}

func TestGenerateWindow_Properties(t *testing.T) {
	windows := []struct {
		start, end, step time.Duration
	}{
		{9 * time.Hour, 20 * time.Hour, 15 * time.Minute},
		{0, 23*time.Hour + 30*time.Minute, 30 * time.Minute},
		{8 * time.Hour, 17 * time.Hour, time.Hour},
		{11 * time.Hour, 13 * time.Hour, 10 * time.Minute},
		{10 * time.Hour, 10 * time.Hour, 5 * time.Minute},
	}
	for _, w := range windows {
		got := GenerateWindow(w.start, w.end, w.step)
		wantLen := int((w.end-w.start)/w.step) + 1
		if len(got) != wantLen {
			t.Fatalf("%v-%v/%v: len=%d, want %d", w.start, w.end, w.step, len(got), wantLen)
		}
		seen := map[string]bool{}
		for i, l := range got {
			if seen[l] {
				t.Fatalf("duplicate label %q", l)
			}
			seen[l] = true
			if want := Label(w.start + time.Duration(i)*w.step); l != want {
				t.Fatalf("label[%d]=%q, want %q", i, l, want)
			}
		}
		if got[len(got)-1] != Label(w.end) {
			t.Fatalf("end bound not inclusive: last=%q", got[len(got)-1])
		}
	}
}

func TestGenerateWindow_Degenerate(t *testing.T) {
	if GenerateWindow(9*time.Hour, 20*time.Hour, 0) != nil {
		t.Fatalf("zero step should yield nil")
	}
	if GenerateWindow(10*time.Hour, 9*time.Hour, time.Minute) != nil {
		t.Fatalf("inverted window should yield nil")
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "12:00 AM"},
		{5 * time.Minute, "12:05 AM"},
		{9 * time.Hour, "9:00 AM"},
		{11*time.Hour + 59*time.Minute, "11:59 AM"},
		{12 * time.Hour, "12:00 PM"},
		{13*time.Hour + 5*time.Minute, "1:05 PM"},
		{20 * time.Hour, "8:00 PM"},
		{24*time.Hour + 30*time.Minute, "12:30 AM"},
	}
	for _, tc := range cases {
		if got := Label(tc.in); got != tc.want {
			t.Fatalf("Label(%v)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAvailable(t *testing.T) {
	got := Available([]string{"9:00 AM", "12:00 PM", "not a slot"})
	if len(got) != len(Generate())-2 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0] != "9:15 AM" {
		t.Fatalf("first available=%q", got[0])
	}
	for _, s := range got {
		if s == "12:00 PM" {
			t.Fatalf("booked slot still offered")
		}
	}
	if n := len(Available(nil)); n != len(Generate()) {
		t.Fatalf("nothing booked: len=%d", n)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for i, l := range Generate() {
		got, ok := Parse(l)
		if !ok {
			t.Fatalf("Parse(%q) failed", l)
		}
		if want := DayStart + time.Duration(i)*Step; got != want {
			t.Fatalf("Parse(%q)=%v, want %v", l, got, want)
		}
	}
	if d, ok := Parse("12:00 AM"); !ok || d != 0 {
		t.Fatalf("midnight: %v %v", d, ok)
	}
	for _, bad := range []string{"", "9:00", "13:00 PM", "9:5 AM", "x:00 AM", "9:00 XM", "0:30 AM"} {
		if _, ok := Parse(bad); ok {
			t.Fatalf("Parse(%q) should fail", bad)
		}
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"9:00 AM", "10:00 AM", -1},
		{"12:00 PM", "1:00 PM", -1},
		{"8:00 PM", "9:45 AM", 1},
		{"9:15 AM", "9:15 AM", 0},
		{"9:00 AM", "garbage", -1},
		{"garbage", "9:00 AM", 1},
		{"a", "b", -1},
	}
	for _, tc := range cases {
		if got := Compare(tc.a, tc.b); got != tc.want {
			t.Fatalf("Compare(%q,%q)=%d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
