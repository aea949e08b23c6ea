// Package events translates tracked, filtered touches into the ordered
// sequence of multi-touch protocol B events the kernel input layer
// expects, and pushes them through a Sink that abstracts the actual
// uinput device.
package events

// Sink is the low-level event surface an Emitter drives. internal/uinput
// implements it against a real /dev/uinput device; tests implement it
// against a recording fake.
type Sink interface {
	Slot(slot int) error
	TrackingID(id int) error
	TouchMajor(v int) error
	PositionX(v int) error
	PositionY(v int) error
	SynMTReport() error
	SynReport() error
	BtnTouch(down bool) error
}

// Report is one slot's contribution to a frame: either a continuing touch
// to report, or a vanished one that needs a liftoff, or neither.
type Report struct {
	Slot       int
	Active     bool
	JustFreed  bool
	TrackingID int
	TouchMajor int
	X, Y       int
}

// Emitter walks a frame's reports and drives Sink in the order the kernel
// multi-touch protocol requires: every continuing touch's full state, then
// a bare slot/tracking-id pair for every touch that just lifted off, then
// the frame's closing sync and BTN_TOUCH state. Called with no active
// touches at all (the inactivity-timeout path), it collapses to the same
// global-liftoff sequence the original firmware sends: every freed slot,
// one SYN_MT_REPORT, one SYN_REPORT, BTN_TOUCH up.
type Emitter struct {
	sink Sink
}

// New returns an Emitter driving sink.
func New(sink Sink) *Emitter {
	return &Emitter{sink: sink}
}

// Emit reports this frame's state to the sink.
func (e *Emitter) Emit(reports []Report) error {
	var anyActive, anyFreed bool

	for _, r := range reports {
		if !r.Active {
			continue
		}
		anyActive = true
		if err := e.reportTouch(r); err != nil {
			return err
		}
	}

	for _, r := range reports {
		if !r.JustFreed {
			continue
		}
		anyFreed = true
		if err := e.liftoffSlot(r.Slot); err != nil {
			return err
		}
	}

	switch {
	case anyActive:
		if err := e.sink.SynReport(); err != nil {
			return err
		}
		return e.sink.BtnTouch(true)
	case anyFreed:
		if err := e.sink.SynMTReport(); err != nil {
			return err
		}
		if err := e.sink.SynReport(); err != nil {
			return err
		}
		return e.sink.BtnTouch(false)
	}
	return nil
}

func (e *Emitter) reportTouch(r Report) error {
	if err := e.sink.Slot(r.Slot); err != nil {
		return err
	}
	if err := e.sink.TrackingID(r.TrackingID); err != nil {
		return err
	}
	if err := e.sink.TouchMajor(r.TouchMajor); err != nil {
		return err
	}
	if err := e.sink.PositionX(r.X); err != nil {
		return err
	}
	if err := e.sink.PositionY(r.Y); err != nil {
		return err
	}
	return e.sink.SynMTReport()
}

func (e *Emitter) liftoffSlot(slot int) error {
	if err := e.sink.Slot(slot); err != nil {
		return err
	}
	return e.sink.TrackingID(-1)
}
