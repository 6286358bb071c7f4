package reactive

import (
	"errors"
	"testing"
)

func TestSignalGetSet(t *testing.T) {
	rt, root := newTestRuntime(t)

	root.Run(func() {
		s := mustSignal(t, rt, "a")
		if got := s.Get(); got != "a" {
			t.Errorf("expected a, got %q", got)
		}
		if err := s.Set("b"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if got := s.Peek(); got != "b" {
			t.Errorf("expected b, got %q", got)
		}
		if err := s.Update(func(v string) string { return v + "c" }); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if got := s.Peek(); got != "bc" {
			t.Errorf("expected bc, got %q", got)
		}
		if s.Version() != 2 {
			t.Errorf("expected version 2, got %d", s.Version())
		}
	})
}

func TestCreateSignalHandles(t *testing.T) {
	rt, root := newTestRuntime(t)

	root.Run(func() {
		get, set, err := CreateSignal(rt, 10)
		if err != nil {
			t.Fatalf("CreateSignal: %v", err)
		}
		if err := set.Update(func(v int) int { return v + 5 }); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if got := get.Get(); got != 15 {
			t.Errorf("expected 15, got %d", got)
		}
	})
}

func TestSignalEqualWriteStillNotifies(t *testing.T) {
	rt, root := newTestRuntime(t)

	root.Run(func() {
		s := mustSignal(t, rt, 1)
		runs := 0
		mustEffect(t, rt, func() error {
			_ = s.Get()
			runs++
			return nil
		})
		_ = s.Set(1)
		_ = s.Set(1)
		if runs != 3 {
			t.Errorf("expected 3 runs, got %d", runs)
		}
	})
}

func TestSignalUseAfterDispose(t *testing.T) {
	rt, root := newTestRuntime(t)

	var s *Signal[int]
	child := rt.NewScope(root)
	child.Run(func() {
		s = mustSignal(t, rt, 1)
	})
	child.Dispose()

	if !s.Disposed() {
		t.Error("expected signal to be disposed")
	}
	if _, err := s.Read(); !errors.Is(err, ErrUseAfterDispose) {
		t.Errorf("expected ErrUseAfterDispose on read, got %v", err)
	}
	if err := s.Set(2); !errors.Is(err, ErrUseAfterDispose) {
		t.Errorf("expected ErrUseAfterDispose on write, got %v", err)
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUseAfterDispose) {
			t.Errorf("expected Get to panic with ErrUseAfterDispose, got %v", r)
		}
	}()
	_ = s.Get()
}

func TestSignalStructValue(t *testing.T) {
	type point struct{ X, Y int }
	rt, root := newTestRuntime(t)

	root.Run(func() {
		s := mustSignal(t, rt, point{1, 2})
		_ = s.Update(func(p point) point {
			p.X = 10
			return p
		})
		if got := s.Peek(); got != (point{10, 2}) {
			t.Errorf("unexpected value %+v", got)
		}
	})
}
