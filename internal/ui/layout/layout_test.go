package layout

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"Arrays", 10, "Arrays"},
		{"Dynamic Programming", 8, "Dynamic…"},
		{"Graphs", 1, "…"},
		{"Graphs", 0, ""},
		{"★★★★", 3, "★★…"},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.n); got != c.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", c.in, c.n, got, c.want)
		}
	}
}

func TestFooterDropsHintsThatDoNotFit(t *testing.T) {
	hints := []KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "b", Description: "Bookmark"},
		{Key: "c", Description: "Clean up everything that is not bookmarked"},
		{Key: "Esc", Description: "Back"},
	}
	out := RenderFooter(hints, 40)
	if !strings.Contains(out, "Open") || !strings.Contains(out, "Back") {
		t.Errorf("short hints should be kept: %q", out)
	}
	if strings.Contains(out, "Clean up") {
		t.Error("a hint wider than the footer should be dropped")
	}
}

func TestHeaderShowsTitleAndStatus(t *testing.T) {
	out := RenderHeader("My Roadmaps", "★ 3 day streak", 100)
	for _, want := range []string{"SkillTrail", "My Roadmaps", "3 day streak"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) || IsTooSmall(MinWidth, MinHeight) {
		t.Error("IsTooSmall boundary is wrong")
	}
}
