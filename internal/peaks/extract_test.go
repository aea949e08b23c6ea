package peaks

import (
	"testing"

	"ctma395-touchd/internal/grid"
)

func TestExtractNoTouch(t *testing.T) {
	var m grid.Matrix
	if got := Extract(&m, Orientation0); len(got) != 0 {
		t.Fatalf("expected no candidates on an empty matrix, got %d", len(got))
	}
}

func TestExtractSinglePeak(t *testing.T) {
	var m grid.Matrix
	m[10][10] = 60
	m[10][11] = 40
	m[11][10] = 35
	m[9][10] = 30

	got := Extract(&m, Orientation0)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 candidate, got %d", len(got))
	}
	c := got[0]
	if c.I < 9 || c.I > 11 || c.J < 9 || c.J > 11 {
		t.Errorf("centroid (%v,%v) outside expected neighborhood", c.I, c.J)
	}
	if c.PW <= 0 {
		t.Errorf("expected positive integrated weight, got %d", c.PW)
	}
}

func TestExtractBorderCells(t *testing.T) {
	var m grid.Matrix
	m[0][0] = 50
	m[grid.Rows-1][grid.Cols-1] = 50

	got := Extract(&m, Orientation0)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates at opposite corners, got %d", len(got))
	}
}

func TestExtractCapsAtMaxTouch(t *testing.T) {
	var m grid.Matrix
	// Seed MaxTouch+2 isolated peaks, spaced far enough apart that none
	// shares a flood-fill neighborhood with another.
	seeds := [][2]int{{0, 0}, {0, 8}, {0, 16}, {0, 24}, {0, 32}, {5, 0}, {10, 0}}
	for _, s := range seeds {
		m[s[0]][s[1]] = 60
	}

	got := Extract(&m, Orientation0)
	if len(got) != MaxTouch {
		t.Fatalf("expected extraction capped at %d, got %d", MaxTouch, len(got))
	}
}

func TestExtractTouchMajorGrowsWithArea(t *testing.T) {
	var small, large grid.Matrix

	small[5][5] = 60

	large[5][5] = 60
	large[5][6] = 40
	large[5][7] = 30
	large[6][5] = 35

	sCand := Extract(&small, Orientation0)
	lCand := Extract(&large, Orientation0)
	if len(sCand) != 1 || len(lCand) != 1 {
		t.Fatalf("expected 1 candidate each, got %d and %d", len(sCand), len(lCand))
	}
	if lCand[0].TouchMajor <= sCand[0].TouchMajor {
		t.Errorf("expected larger region to report larger touch_major: small=%d large=%d",
			sCand[0].TouchMajor, lCand[0].TouchMajor)
	}
}

func TestTransformOrientations(t *testing.T) {
	x0, y0 := transform(0, 0, Orientation0)
	if x0 != 1024 || y0 != 768 {
		t.Errorf("orientation0 origin: got (%v,%v), want (1024,768)", x0, y0)
	}

	x270, y270 := transform(0, 0, Orientation270)
	if x270 != 0 || y270 != 1024 {
		t.Errorf("orientation270 origin: got (%v,%v), want (0,1024)", x270, y270)
	}
}
