package diagram

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellblend/pkg/color"
	cberrors "github.com/matzehuels/cellblend/pkg/errors"
	"github.com/matzehuels/cellblend/pkg/points"
)

func newTestStore(t *testing.T, n int) *Store {
	t.Helper()
	var buf bytes.Buffer
	gen := points.NewGenerator(points.DefaultBounds, color.DefaultPalette, 42)
	return NewStore(gen, n, log.New(&buf))
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t, 10)
	st := s.Snapshot()
	if st.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", st.Len())
	}
	if st.Version != 0 {
		t.Errorf("Version = %d, want 0", st.Version)
	}
	if st.Generation == "" {
		t.Error("Generation should be set")
	}
	if st.Bounds != points.DefaultBounds {
		t.Errorf("Bounds = %+v", st.Bounds)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestStore(t, 3)
	st := s.Snapshot()
	st.Points[0].Color = "#123456"
	if s.Snapshot().Points[0].Color == "#123456" {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestRegenerate(t *testing.T) {
	s := newTestStore(t, 10)
	before := s.Snapshot()

	st, err := s.Regenerate(30)
	if err != nil {
		t.Fatalf("Regenerate() error: %v", err)
	}
	if st.Len() != 30 {
		t.Errorf("Len() = %d, want 30", st.Len())
	}
	if st.Generation == before.Generation {
		t.Error("Regenerate should start a new generation")
	}
	if st.Version != before.Version+1 {
		t.Errorf("Version = %d, want %d", st.Version, before.Version+1)
	}

	if _, err := s.Regenerate(-1); !cberrors.Is(err, cberrors.ErrCodeInvalidInput) {
		t.Errorf("Regenerate(-1) error = %v, want INVALID_INPUT", err)
	}
}

func TestResetColorsKeepsCoordinates(t *testing.T) {
	s := newTestStore(t, 20)
	before := s.Snapshot()

	after := s.ResetColors()
	if after.Len() != before.Len() {
		t.Fatalf("Len() changed from %d to %d", before.Len(), after.Len())
	}
	if after.Generation != before.Generation {
		t.Error("ResetColors should keep the generation")
	}
	for i := range before.Points {
		if after.Points[i].X != before.Points[i].X || after.Points[i].Y != before.Points[i].Y {
			t.Errorf("point %d moved", i)
		}
		if !color.DefaultPalette.Contains(after.Points[i].Color) {
			t.Errorf("point %d color %s not in palette", i, after.Points[i].Color)
		}
	}
}

func TestRemoveAt(t *testing.T) {
	s := newTestStore(t, 5)
	before := s.Snapshot()

	after := s.RemoveAt(1, 3)
	if after.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", after.Len())
	}
	want := []points.Point{before.Points[0], before.Points[2], before.Points[4]}
	for i := range want {
		if after.Points[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, after.Points[i], want[i])
		}
	}
}

func TestWithout(t *testing.T) {
	pts := make([]points.Point, 5)
	for i := range pts {
		pts[i] = points.Point{X: float64(i)}
	}

	tests := []struct {
		name    string
		indices []int
		want    []float64
	}{
		{"none", nil, []float64{0, 1, 2, 3, 4}},
		{"middle", []int{1, 3}, []float64{0, 2, 4}},
		{"duplicates", []int{2, 2}, []float64{0, 1, 3, 4}},
		{"out of range", []int{-1, 5, 99}, []float64{0, 1, 2, 3, 4}},
		{"unordered", []int{4, 0}, []float64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Without(pts, tt.indices...)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, p := range got {
				if p.X != tt.want[i] {
					t.Errorf("got[%d].X = %v, want %v", i, p.X, tt.want[i])
				}
			}
		})
	}
	if len(pts) != 5 {
		t.Error("Without mutated its input")
	}
}

func TestSetColorAt(t *testing.T) {
	s := newTestStore(t, 3)

	st, err := s.SetColorAt(1, "#abc")
	if err != nil {
		t.Fatalf("SetColorAt() error: %v", err)
	}
	if st.Points[1].Color != "#AABBCC" {
		t.Errorf("color = %s, want #AABBCC", st.Points[1].Color)
	}

	if _, err := s.SetColorAt(3, "#FFFFFF"); !cberrors.Is(err, cberrors.ErrCodeInvalidIndex) {
		t.Errorf("out of range error = %v", err)
	}
	if _, err := s.SetColorAt(0, "nope"); !errors.Is(err, color.ErrInvalidColor) {
		t.Errorf("bad color error = %v", err)
	}
	if got := s.Snapshot().Version; got != 1 {
		t.Errorf("failed writes should not publish, Version = %d", got)
	}
}

func TestUpdatePublishesOnce(t *testing.T) {
	s := newTestStore(t, 4)

	var published []State
	cancel := s.Subscribe(func(st State) { published = append(published, st) })
	defer cancel()

	st, err := s.Update(func(tx *Tx) error {
		if err := tx.SetColorAt(0, "#111111"); err != nil {
			return err
		}
		if err := tx.SetColorAt(3, "#333333"); err != nil {
			return err
		}
		tx.RemoveAt(1, 2)
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("published %d states, want 1", len(published))
	}
	if st.Len() != 2 || st.Points[0].Color != "#111111" || st.Points[1].Color != "#333333" {
		t.Errorf("unexpected state: %+v", st.Points)
	}
	if published[0].Version != st.Version {
		t.Errorf("subscriber saw version %d, want %d", published[0].Version, st.Version)
	}
}

func TestUpdateErrorDiscards(t *testing.T) {
	s := newTestStore(t, 4)
	before := s.Snapshot()

	calls := 0
	cancel := s.Subscribe(func(State) { calls++ })
	defer cancel()

	boom := errors.New("boom")
	_, err := s.Update(func(tx *Tx) error {
		_ = tx.SetColorAt(0, "#FFFFFF")
		tx.RemoveAt(1)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v", err)
	}
	if calls != 0 {
		t.Error("failed update should not publish")
	}
	after := s.Snapshot()
	if after.Len() != before.Len() || after.Points[0] != before.Points[0] {
		t.Error("failed update changed the state")
	}
}

func TestUpdateNoChange(t *testing.T) {
	s := newTestStore(t, 2)
	st, err := s.Update(func(tx *Tx) error { return nil })
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if st.Version != 0 {
		t.Errorf("no-op update published version %d", st.Version)
	}
}

func TestSubscribeCancel(t *testing.T) {
	s := newTestStore(t, 2)
	calls := 0
	cancel := s.Subscribe(func(State) { calls++ })

	s.ResetColors()
	cancel()
	s.ResetColors()

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestConcurrentReaders(t *testing.T) {
	s := newTestStore(t, 50)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				st := s.Snapshot()
				// Every snapshot is internally consistent.
				if st.Len() != 50 && st.Len() != 48 {
					t.Errorf("observed partial state with %d cells", st.Len())
					return
				}
			}
		}()
	}
	for range 20 {
		s.ResetColors()
	}
	s.RemoveAt(0, 1)
	wg.Wait()
}

func TestReplace(t *testing.T) {
	s := newTestStore(t, 3)
	gen := s.Snapshot().Generation

	st, err := s.Replace([]points.Point{{X: 1, Y: 2, Color: "#abc"}, {X: 3, Y: 4, Color: "#FF0000"}})
	if err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if st.Len() != 2 || st.Points[0].Color != "#AABBCC" {
		t.Errorf("unexpected state: %+v", st.Points)
	}
	if st.Generation == gen {
		t.Error("Replace should start a new generation")
	}

	if _, err := s.Replace([]points.Point{{X: 1, Y: 1, Color: "#12"}}); !cberrors.Is(err, cberrors.ErrCodeInvalidColor) {
		t.Errorf("bad color error = %v", err)
	}
	if _, err := s.Replace([]points.Point{{X: 600, Y: 1, Color: "#000"}}); !cberrors.Is(err, cberrors.ErrCodeInvalidInput) {
		t.Errorf("out of bounds error = %v", err)
	}
	if s.Snapshot().Len() != 2 {
		t.Error("rejected Replace changed the state")
	}
}
