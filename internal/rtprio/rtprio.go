// Package rtprio requests real-time scheduling for the calling process.
// The panel's byte stream has a tight turnaround (the 25ms inactivity
// window doubles as the liftoff deadline), so the daemon asks for
// SCHED_FIFO at the highest priority to avoid being preempted by
// background load -- best-effort, since it requires privilege the daemon
// may not have.
package rtprio

import "golang.org/x/sys/unix"

// Priority is the SCHED_FIFO priority requested at startup, matching the
// original driver's fixed priority.
const Priority = 99

// RequestRealtime asks the kernel to schedule the current process under
// SCHED_FIFO at Priority. Failure (most commonly EPERM when not running as
// root or without CAP_SYS_NICE) is returned to the caller to log, not to
// treat as fatal.
func RequestRealtime() error {
	param := &unix.SchedParam{Priority: int32(Priority)}
	return unix.SchedSetscheduler(0, unix.SCHED_FIFO, param)
}
