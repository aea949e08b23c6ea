package engine

import (
	"testing"

	"ctma395-touchd/internal/events"
)

type call struct {
	op  string
	arg int
}

type recordingSink struct {
	calls []call
}

func (r *recordingSink) Slot(slot int) error     { r.calls = append(r.calls, call{"slot", slot}); return nil }
func (r *recordingSink) TrackingID(id int) error { r.calls = append(r.calls, call{"tracking_id", id}); return nil }
func (r *recordingSink) TouchMajor(v int) error  { r.calls = append(r.calls, call{"touch_major", v}); return nil }
func (r *recordingSink) PositionX(v int) error   { r.calls = append(r.calls, call{"x", v}); return nil }
func (r *recordingSink) PositionY(v int) error   { r.calls = append(r.calls, call{"y", v}); return nil }
func (r *recordingSink) SynMTReport() error      { r.calls = append(r.calls, call{"syn_mt", 0}); return nil }
func (r *recordingSink) SynReport() error        { r.calls = append(r.calls, call{"syn", 0}); return nil }
func (r *recordingSink) BtnTouch(down bool) error {
	v := 0
	if down {
		v = 1
	}
	r.calls = append(r.calls, call{"btn_touch", v})
	return nil
}

var _ events.Sink = (*recordingSink)(nil)

func rowRecord(row byte, samples [40]byte) []byte {
	out := []byte{0xFF, 0x43, row}
	out = append(out, samples[:]...)
	out = append(out, 0x00) // trailing byte; row records are 44 bytes total
	return out
}

func endOfFrame() []byte {
	// L=1: sync, opcode, length byte, one payload byte, one trailing byte
	// (total L+4 = 5), the smallest record recordCompleteAt accepts.
	return []byte{0xFF, 0x47, 0x01, 0x00, 0x00}
}

func feedAll(t *testing.T, e *Engine, bs []byte) {
	t.Helper()
	for _, b := range bs {
		if err := e.Feed(b); err != nil {
			t.Fatalf("Feed: %v", err)
		}
	}
}

func singlePeakFrame(row int, col int, v byte) []byte {
	var out []byte
	for r := 0; r < 30; r++ {
		var samples [40]byte
		if r == row {
			samples[col] = v
		}
		rec := rowRecord(byte(r)|startBitFor(r), samples)
		out = append(out, rec...)
	}
	out = append(out, endOfFrame()...)
	return out
}

// multiPeakFrame builds a frame with an arbitrary set of (row,col)->value
// samples, all other cells zero.
func multiPeakFrame(points map[[2]int]byte) []byte {
	var out []byte
	for r := 0; r < 30; r++ {
		var samples [40]byte
		for pt, v := range points {
			if pt[0] == r {
				samples[pt[1]] = v
			}
		}
		rec := rowRecord(byte(r)|startBitFor(r), samples)
		out = append(out, rec...)
	}
	out = append(out, endOfFrame()...)
	return out
}

func startBitFor(row int) byte {
	if row == 0 {
		return 0x80
	}
	return 0
}

func TestEngineSingleTouchDown(t *testing.T) {
	sink := &recordingSink{}
	e := New(sink)

	feedAll(t, e, singlePeakFrame(15, 20, 60))

	found := false
	for _, c := range sink.calls {
		if c.op == "btn_touch" && c.arg == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected BTN_TOUCH down after a single-peak frame, calls: %v", sink.calls)
	}
}

func TestEngineTimeoutLiftsOffActiveTouch(t *testing.T) {
	sink := &recordingSink{}
	e := New(sink)

	feedAll(t, e, singlePeakFrame(15, 20, 60))
	sink.calls = nil

	if err := e.Timeout(); err != nil {
		t.Fatal(err)
	}

	var sawLiftID, sawBtnUp bool
	for i, c := range sink.calls {
		if c.op == "tracking_id" && c.arg == -1 {
			sawLiftID = true
		}
		if c.op == "btn_touch" && c.arg == 0 {
			sawBtnUp = true
		}
		_ = i
	}
	if !sawLiftID {
		t.Errorf("expected a tracking_id=-1 liftoff, calls: %v", sink.calls)
	}
	if !sawBtnUp {
		t.Errorf("expected BTN_TOUCH up after timeout, calls: %v", sink.calls)
	}
}

func TestEngineNoTouchProducesNoEvents(t *testing.T) {
	sink := &recordingSink{}
	e := New(sink)

	feedAll(t, e, singlePeakFrame(0, 0, 0)) // all zero, below threshold

	if len(sink.calls) != 0 {
		t.Errorf("expected no events for an empty frame, got %v", sink.calls)
	}
}
