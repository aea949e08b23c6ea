// Package peaks locates touch regions in a populated capacitance matrix and
// reduces each to a weighted centroid, following the panel firmware's own
// peak-detection heuristic: enter each region at its local maximum, flood
// fill outward through a core (bounding-box) zone and a decreasing fringe
// shoulder, and weight every visited cell by v^1.5 to sharpen the centroid
// toward the peak.
package peaks

import "ctma395-touchd/internal/grid"

// Tunables taken from the panel firmware. Do not change without also
// revalidating against a capture of real sensor data; these thresholds are
// calibrated to the CTMA395's noise floor, not derived from first
// principles.
const (
	MaxTouch = 5

	TouchThreshold   = 28
	LargeAreaUnpress = TouchThreshold - 4 // 24
	LargeAreaFringe  = 15
	PinchThreshold   = 16

	pixelsPerPoint = 25 // touch_major scale: grid cells -> pixels
)

// Orientation selects the coordinate transform applied to a candidate's
// grid centroid. Default is the panel's native mounting; Orientation270 swaps
// the axes for a display rotated a quarter turn, per the kernel driver's
// USERSPACE_270_ROTATE option.
type Orientation int

const (
	Orientation0 Orientation = iota
	Orientation270
)

// Candidate is a touch region found by Extract, in raster-scan order of its
// seed cell.
type Candidate struct {
	I, J       float64 // grid-space centroid
	PW         int     // integrated weight (cumulative, truncated to int)
	TouchMajor int     // region extent in pixels
	X, Y       float64 // transformed screen coordinates (raw, pre-filter)
}

type cell struct {
	i, j   int
	isCore bool
}

// Extract finds up to MaxTouch touch regions in m and returns them in
// raster-scan order of their seed cell. Extra peaks beyond MaxTouch are
// silently ignored; this is policy, not failure.
func Extract(m *grid.Matrix, o Orientation) []Candidate {
	var claimed [grid.Rows][grid.Cols]bool
	var out []Candidate

	for i := 0; i < grid.Rows && len(out) < MaxTouch; i++ {
		for j := 0; j < grid.Cols && len(out) < MaxTouch; j++ {
			if m[i][j] <= TouchThreshold || claimed[i][j] {
				continue
			}
			if hasGreaterNeighbor(m, i, j) {
				continue
			}
			out = append(out, floodFill(m, &claimed, i, j, o))
		}
	}
	return out
}

// hasGreaterNeighbor implements the local-maximum gate: a cell only seeds a
// region if none of its 8 neighbors strictly exceeds it. This stabilizes
// the centroid against sensor noise by always entering a region at its
// peak.
func hasGreaterNeighbor(m *grid.Matrix, i, j int) bool {
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			if di == 0 && dj == 0 {
				continue
			}
			ni, nj := i+di, j+dj
			if ni < 0 || ni >= grid.Rows || nj < 0 || nj >= grid.Cols {
				continue
			}
			if m[ni][nj] > m[i][j] {
				return true
			}
		}
	}
	return false
}

// floodFill grows a touch region from seed (i,j) using an explicit stack
// (the grid is bounded to 1200 cells, but an iterative fill avoids
// unbounded recursion depth on pathological input). Core cells update the
// bounding box and block re-seeding as new candidates; fringe cells
// contribute only to the centroid.
func floodFill(m *grid.Matrix, claimed *[grid.Rows][grid.Cols]bool, si, sj int, o Orientation) Candidate {
	stack := []cell{{si, sj, true}}
	claimed[si][sj] = true

	var wsum, isum, jsum float64
	mini, maxi, minj, maxj := si, si, sj, sj

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		v := m[c.i][c.j]
		w := weight(v)
		wsum += w
		isum += w * float64(c.i)
		jsum += w * float64(c.j)

		if c.isCore {
			if c.i < mini {
				mini = c.i
			}
			if c.i > maxi {
				maxi = c.i
			}
			if c.j < minj {
				minj = c.j
			}
			if c.j > maxj {
				maxj = c.j
			}
		}

		pushNeighbors(m, claimed, &stack, c, v)
	}

	var avgi, avgj float64
	if wsum > 0 {
		avgi = isum / wsum
		avgj = jsum / wsum
	}

	touchMajor := (maxi - mini)
	if (maxj - minj) > touchMajor {
		touchMajor = maxj - minj
	}

	x, y := transform(avgi, avgj, o)

	return Candidate{
		I: avgi, J: avgj,
		PW:         int(wsum),
		TouchMajor: touchMajor * pixelsPerPoint,
		X:          x,
		Y:          y,
	}
}

func pushNeighbors(m *grid.Matrix, claimed *[grid.Rows][grid.Cols]bool, stack *[]cell, c cell, cur uint8) {
	neighbors := [4][2]int{{c.i - 1, c.j}, {c.i + 1, c.j}, {c.i, c.j - 1}, {c.i, c.j + 1}}
	for _, n := range neighbors {
		ni, nj := n[0], n[1]
		if ni < 0 || ni >= grid.Rows || nj < 0 || nj >= grid.Cols || claimed[ni][nj] {
			continue
		}
		v := m[ni][nj]

		if c.isCore && v >= LargeAreaUnpress && uint16(v) < uint16(cur)+PinchThreshold {
			claimed[ni][nj] = true
			*stack = append(*stack, cell{ni, nj, true})
			continue
		}
		if v >= LargeAreaFringe && v < cur {
			claimed[ni][nj] = true
			*stack = append(*stack, cell{ni, nj, false})
		}
	}
}

// transform maps a grid-space centroid to screen pixels. Default
// orientation reports X in [0,1024] and Y in [0,768]; Orientation270 swaps the
// axes to match a display rotated a quarter turn, per spec.
func transform(i, j float64, o Orientation) (x, y float64) {
	if o == Orientation270 {
		return i * 768.0 / 29.0, 1024.0 - j*1024.0/39.0
	}
	return 1024.0 - j*1024.0/39.0, 768.0 - i*768.0/29.0
}
