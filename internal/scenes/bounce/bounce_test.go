package bounce

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/core"
)

const step = time.Second / 60

func newScene(seed int64) *Scene {
	s := New(config.Default().Scenes.Bounce)
	s.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 20, FixedDelta: step, Seed: seed})
	return s
}

func TestSceneDeterminism(t *testing.T) {
	s1 := newScene(12345)
	s2 := newScene(12345)

	for i := 0; i < 600; i++ {
		in := core.NewInputFrame()
		if i%90 == 0 {
			in.Set(core.ActionKick)
		}
		s1.Update(in, step)
		s2.Update(in, step)
		s1.FixedUpdate(step)
		s2.FixedUpdate(step)
	}

	p1, p2 := s1.Positions(1), s2.Positions(1)
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Errorf("ball %d diverged: %v vs %v", i, p1[i], p2[i])
		}
	}
	if s1.Bounces() != s2.Bounces() {
		t.Errorf("bounces differ: %d vs %d", s1.Bounces(), s2.Bounces())
	}
}

func TestBallsStayInArena(t *testing.T) {
	s := newScene(7)
	arena := core.NewRect(0, 0, 40, 20).Inset(1)

	for i := 0; i < 1200; i++ {
		s.FixedUpdate(step)
		for j, p := range s.Positions(1) {
			x, y := p.Round()
			if !arena.Contains(x, y) {
				t.Fatalf("step %d: ball %d at %v left the arena", i, j, p)
			}
		}
	}
	if s.Bounces() == 0 {
		t.Error("expected at least one wall hit in 20 simulated seconds")
	}
}

func TestInterpolationBlendsSteps(t *testing.T) {
	s := newScene(3)
	s.FixedUpdate(step)

	prev := s.Positions(0)
	curr := s.Positions(1)
	half := s.Positions(0.5)
	for i := range half {
		mid := core.Lerp(prev[i], curr[i], 0.5)
		if math.Abs(half[i].X-mid.X) > 1e-9 || math.Abs(half[i].Y-mid.Y) > 1e-9 {
			t.Errorf("ball %d at alpha 0.5 = %v, expected %v", i, half[i], mid)
		}
	}
}

func TestStateCountsFixedSteps(t *testing.T) {
	s := newScene(1)
	for i := 0; i < 30; i++ {
		s.FixedUpdate(step)
	}

	st := s.State()
	if st.Steps != 30 {
		t.Errorf("Steps = %d, expected 30", st.Steps)
	}
	if st.SimTime != 30*step {
		t.Errorf("SimTime = %v, expected %v", st.SimTime, 30*step)
	}

	// Update alone never advances the simulation
	s.Update(core.NewInputFrame(), time.Second)
	if s.State().Steps != 30 {
		t.Error("Update must not advance fixed steps")
	}
}

func TestRestartResets(t *testing.T) {
	s := newScene(9)
	start := s.Positions(0)
	for i := 0; i < 100; i++ {
		s.FixedUpdate(step)
	}

	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	s.Update(in, step)

	if s.State().Steps != 0 {
		t.Errorf("Steps = %d after restart, expected 0", s.State().Steps)
	}
	for i, p := range s.Positions(0) {
		if p != start[i] {
			t.Errorf("ball %d at %v after restart, expected %v", i, p, start[i])
		}
	}
}

func TestRenderDrawsBalls(t *testing.T) {
	s := newScene(5)
	screen := core.NewScreen(40, 20)
	s.Render(screen, 0)

	if got := strings.Count(screen.String(), string(BallChar)); got == 0 {
		t.Error("Render drew no balls")
	}
	if screen.Get(0, 0) != '┌' {
		t.Errorf("arena border missing, top-left = %q", screen.Get(0, 0))
	}
}
