package audio

import (
	"errors"
	"testing"
)

// The memory sink carries the full lifecycle contract, so the state-machine
// properties are tested against it; the hardware backends share the same
// transitions.

func TestSinkLifecycleHappyPath(t *testing.T) {
	sink := NewMemorySink()

	if sink.State() != SinkUninitialized {
		t.Fatalf("expected uninitialized state, got %s", sink.State())
	}

	if err := sink.Configure(44100, 2); err != nil {
		t.Fatalf("configure failed: %v", err)
	}
	if sink.State() != SinkConfigured {
		t.Errorf("expected configured state, got %s", sink.State())
	}

	if err := sink.Enable(); err != nil {
		t.Fatalf("enable failed: %v", err)
	}

	n, err := sink.Write([]int16{1, 2, 3, 4}, TimeoutInfinite)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 samples written, got %d", n)
	}

	if err := sink.Disable(); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if err := sink.Destroy(); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	if sink.State() != SinkDestroyed {
		t.Errorf("expected destroyed state, got %s", sink.State())
	}
}

func TestSinkDestroyIdempotent(t *testing.T) {
	t.Run("never configured", func(t *testing.T) {
		sink := NewMemorySink()
		for i := 0; i < 3; i++ {
			if err := sink.Destroy(); err != nil {
				t.Errorf("destroy call %d failed: %v", i, err)
			}
		}
	})

	t.Run("after configure only", func(t *testing.T) {
		sink := NewMemorySink()
		if err := sink.Configure(8000, 1); err != nil {
			t.Fatalf("configure failed: %v", err)
		}
		if err := sink.Destroy(); err != nil {
			t.Errorf("destroy after configure failed: %v", err)
		}
		if err := sink.Destroy(); err != nil {
			t.Errorf("second destroy failed: %v", err)
		}
	})

	t.Run("after full lifecycle", func(t *testing.T) {
		sink := NewMemorySink()
		sink.Configure(48000, 2)
		sink.Enable()
		sink.Write([]int16{0}, TimeoutInfinite)
		sink.Disable()
		for i := 0; i < 2; i++ {
			if err := sink.Destroy(); err != nil {
				t.Errorf("destroy call %d failed: %v", i, err)
			}
		}
	})
}

func TestSinkDisableWithoutData(t *testing.T) {
	sink := NewMemorySink()
	sink.Configure(16000, 1)
	sink.Enable()

	// No writes at all; disable must still be safe.
	if err := sink.Disable(); err != nil {
		t.Errorf("disable without writes failed: %v", err)
	}
}

func TestSinkEnableWithoutConfigure(t *testing.T) {
	sink := NewMemorySink()
	if err := sink.Enable(); !errors.Is(err, ErrSinkNotConfigured) {
		t.Errorf("expected ErrSinkNotConfigured, got %v", err)
	}
}

func TestSinkWriteWithoutEnable(t *testing.T) {
	sink := NewMemorySink()
	sink.Configure(44100, 1)
	if _, err := sink.Write([]int16{1}, TimeoutInfinite); !errors.Is(err, ErrSinkNotEnabled) {
		t.Errorf("expected ErrSinkNotEnabled, got %v", err)
	}
}

func TestSinkConfigureInvalidParams(t *testing.T) {
	testCases := []struct {
		name     string
		rate     uint32
		channels uint16
	}{
		{"zero rate", 0, 1},
		{"zero channels", 44100, 0},
		{"too many channels", 44100, 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sink := NewMemorySink()
			err := sink.Configure(tc.rate, tc.channels)
			if !errors.Is(err, ErrSinkConfiguration) {
				t.Errorf("expected ErrSinkConfiguration, got %v", err)
			}
		})
	}
}

func TestSinkReconfigureForcesTeardown(t *testing.T) {
	sink := NewMemorySink()
	sink.Configure(44100, 2)
	sink.Enable()
	sink.Write([]int16{1, 2}, TimeoutInfinite)

	// A second configure on a live channel must tear the old one down and
	// come up fresh.
	if err := sink.Configure(22050, 1); err != nil {
		t.Fatalf("reconfigure failed: %v", err)
	}
	if sink.State() != SinkConfigured {
		t.Errorf("expected configured state, got %s", sink.State())
	}
	if sink.SampleRate() != 22050 || sink.Channels() != 1 {
		t.Errorf("expected fresh 22050/1 configuration, got %d/%d",
			sink.SampleRate(), sink.Channels())
	}
	if len(sink.Written()) != 0 {
		t.Errorf("expected empty capture after reconfigure, got %d samples", len(sink.Written()))
	}
}

func TestSinkInjectedWriteFailure(t *testing.T) {
	sink := NewMemorySink()
	sink.FailAfterWrites = 1
	sink.Configure(44100, 1)
	sink.Enable()

	if _, err := sink.Write([]int16{1}, TimeoutInfinite); err != nil {
		t.Fatalf("first write should succeed: %v", err)
	}
	if _, err := sink.Write([]int16{2}, TimeoutInfinite); !errors.Is(err, ErrSinkWrite) {
		t.Errorf("expected ErrSinkWrite on second write, got %v", err)
	}
}

func TestSinkStateString(t *testing.T) {
	states := map[SinkState]string{
		SinkUninitialized: "uninitialized",
		SinkConfigured:    "configured",
		SinkEnabled:       "enabled",
		SinkDisabled:      "disabled",
		SinkDestroyed:     "destroyed",
	}
	for state, expected := range states {
		if state.String() != expected {
			t.Errorf("expected %q, got %q", expected, state.String())
		}
	}
}

func TestSinkFactory(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		sink, err := NewSink("memory")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := sink.(*MemorySink); !ok {
			t.Errorf("expected *MemorySink, got %T", sink)
		}
	})

	t.Run("auto selects malgo", func(t *testing.T) {
		sink, err := NewSink("auto")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := sink.(*MalgoSink); !ok {
			t.Errorf("expected *MalgoSink, got %T", sink)
		}
	})

	t.Run("empty defaults to auto", func(t *testing.T) {
		if _, err := NewSink(""); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		if _, err := NewSink("bogus"); !errors.Is(err, ErrInvalidBackendType) {
			t.Errorf("expected ErrInvalidBackendType, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		for _, backend := range SupportedBackends() {
			if !IsValidBackendType(backend) {
				t.Errorf("expected %q to be valid", backend)
			}
		}
		if IsValidBackendType("bogus") {
			t.Error("expected bogus to be invalid")
		}
		if !IsValidBackendType("") {
			t.Error("expected empty string to be valid")
		}
	})
}
