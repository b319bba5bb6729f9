package sim

import "testing"

func TestMachineTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  State
		op    func(*machine) bool
		ok    bool
		after State
	}{
		{"start from idle", Idle, (*machine).start, true, Running},
		{"start twice", Running, (*machine).start, false, Running},
		{"pause running", Running, (*machine).pause, true, Paused},
		{"pause idle", Idle, (*machine).pause, false, Idle},
		{"resume paused", Paused, (*machine).resume, true, Running},
		{"resume lost", Lost, (*machine).resume, false, Lost},
		{"restart lost", Lost, (*machine).restart, true, Running},
		{"restart paused", Paused, (*machine).restart, false, Paused},
		{"restart idle", Idle, (*machine).restart, false, Idle},
		{"restart running", Running, (*machine).restart, false, Running},
		{"lose paused", Paused, func(m *machine) bool { return m.lose(CauseFall) }, false, Paused},
		{"lose idle", Idle, func(m *machine) bool { return m.lose(CauseFall) }, false, Idle},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &machine{state: tc.from}
			if got := tc.op(m); got != tc.ok {
				t.Errorf("transition = %v, want %v", got, tc.ok)
			}
			if m.state != tc.after {
				t.Errorf("state = %v, want %v", m.state, tc.after)
			}
		})
	}
}

func TestMachineLosesOnce(t *testing.T) {
	m := &machine{}
	m.start()

	if !m.lose(CauseContact) {
		t.Fatal("first loss should transition")
	}
	if m.lose(CauseFall) {
		t.Error("second loss must not transition")
	}
	if m.cause != CauseContact || m.losses != 1 {
		t.Errorf("cause = %v, losses = %d", m.cause, m.losses)
	}

	m.restart()
	if m.cause != CauseNone {
		t.Error("restart clears the cause")
	}
}

func TestStateStrings(t *testing.T) {
	if Running.String() != "running" || State(42).String() != "unknown" {
		t.Error("unexpected state names")
	}
	if CauseFall.String() != "fall" || CauseNone.String() != "none" {
		t.Error("unexpected cause names")
	}
}
