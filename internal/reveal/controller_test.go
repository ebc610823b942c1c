package reveal

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ControllerTestSuite struct {
	suite.Suite
	now        time.Time
	controller *Controller
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (s *ControllerTestSuite) SetupTest() {
	s.now = time.Date(2025, 4, 28, 12, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	s.controller = NewController(logger, WithClock(func() time.Time { return s.now }))
}

func (s *ControllerTestSuite) TestRegister_StartsHidden() {
	s.Require().NoError(s.controller.Register("hero"))

	state, err := s.controller.State("hero")
	s.Require().NoError(err)
	s.Equal(Hidden, state)
}

func (s *ControllerTestSuite) TestRegister_RejectsDuplicateAndBadOptions() {
	s.Require().NoError(s.controller.Register("hero"))
	s.ErrorIs(s.controller.Register("hero"), ErrDuplicateTarget)
	s.Error(s.controller.Register(""))
	s.Error(s.controller.Register("bad", WithThreshold(1.5)))
}

func (s *ControllerTestSuite) TestObserve_BelowThresholdStaysHidden() {
	s.Require().NoError(s.controller.Register("card"))

	_, changed := s.controller.Observe(Intersection{TargetID: "card", Ratio: 0.05})
	s.False(changed)

	state, _ := s.controller.State("card")
	s.Equal(Hidden, state)
}

func (s *ControllerTestSuite) TestObserve_ThresholdCrossingReveals() {
	s.Require().NoError(s.controller.Register("card"))

	tr, changed := s.controller.Observe(Intersection{TargetID: "card", Ratio: 0.1})
	s.True(changed)
	s.Equal(Transition{TargetID: "card", From: Hidden, To: Visible, At: s.now}, tr)
}

func (s *ControllerTestSuite) TestObserve_TriggerOnceIsTerminal() {
	s.Require().NoError(s.controller.Register("card"))
	s.controller.Observe(Intersection{TargetID: "card", Ratio: 0.5})

	_, changed := s.controller.Observe(Intersection{TargetID: "card", Ratio: 0})
	s.False(changed)

	state, _ := s.controller.State("card")
	s.Equal(Visible, state)
}

func (s *ControllerTestSuite) TestObserve_ReplayReturnsToHidden() {
	s.Require().NoError(s.controller.Register("card", WithReplay()))
	s.controller.Observe(Intersection{TargetID: "card", Ratio: 0.5})

	tr, changed := s.controller.Observe(Intersection{TargetID: "card", Ratio: 0})
	s.True(changed)
	s.Equal(Hidden, tr.To)

	_, changed = s.controller.Observe(Intersection{TargetID: "card", Ratio: 0.3})
	s.True(changed)
}

func (s *ControllerTestSuite) TestObserve_ZeroThresholdNeedsAnyPixel() {
	s.Require().NoError(s.controller.Register("card", WithThreshold(0)))

	_, changed := s.controller.Observe(Intersection{TargetID: "card", Ratio: 0})
	s.False(changed)
	_, changed = s.controller.Observe(Intersection{TargetID: "card", Ratio: 0.01})
	s.True(changed)
}

func (s *ControllerTestSuite) TestObserve_UnknownOrUnregisteredIgnored() {
	_, changed := s.controller.Observe(Intersection{TargetID: "ghost", Ratio: 1})
	s.False(changed)

	s.Require().NoError(s.controller.Register("card"))
	s.controller.Unregister("card")
	_, changed = s.controller.Observe(Intersection{TargetID: "card", Ratio: 1})
	s.False(changed)

	_, err := s.controller.State("card")
	s.ErrorIs(err, ErrUnknownTarget)
}

func (s *ControllerTestSuite) TestSubscribe_ReceivesTransitions() {
	var got []Transition
	s.controller.Subscribe(func(tr Transition) { got = append(got, tr) })
	s.Require().NoError(s.controller.Register("a"))
	s.Require().NoError(s.controller.Register("b"))

	s.controller.Observe(Intersection{TargetID: "a", Ratio: 1})
	s.controller.Observe(Intersection{TargetID: "a", Ratio: 1})
	s.controller.Observe(Intersection{TargetID: "b", Ratio: 1})

	s.Require().Len(got, 2)
	s.Equal("a", got[0].TargetID)
	s.Equal("b", got[1].TargetID)
}

func (s *ControllerTestSuite) TestSubscribe_FromCallbackAppliesToLaterTransitions() {
	var late []string
	s.controller.Subscribe(func(Transition) {
		s.controller.Subscribe(func(tr Transition) { late = append(late, tr.TargetID) })
	})
	s.Require().NoError(s.controller.Register("a"))
	s.Require().NoError(s.controller.Register("b"))

	s.controller.Observe(Intersection{TargetID: "a", Ratio: 1})
	s.Empty(late)

	s.controller.Observe(Intersection{TargetID: "b", Ratio: 1})
	s.Equal([]string{"b"}, late)
}

func (s *ControllerTestSuite) TestFrame_HiddenUsesDirectionOffset() {
	s.Require().NoError(s.controller.Register("left", WithDirection(Left), WithDistance(80)))

	style, err := s.controller.Frame("left", time.Second)
	s.Require().NoError(err)
	s.Equal(Style{Opacity: 0, Offset: Offset{X: 80}}, style)
}

func (s *ControllerTestSuite) TestFrame_AnimatesAfterReveal() {
	s.Require().NoError(s.controller.Register("card", WithDelay(100*time.Millisecond)))
	s.controller.Observe(Intersection{TargetID: "card", Ratio: 1})

	before, err := s.controller.Frame("card", 50*time.Millisecond)
	s.Require().NoError(err)
	s.Equal(0.0, before.Opacity)
	s.Equal(50.0, before.Offset.Y)

	mid, _ := s.controller.Frame("card", 400*time.Millisecond)
	s.Greater(mid.Opacity, 0.5)
	s.Less(mid.Opacity, 1.0)
	s.InDelta(50*(1-mid.Opacity), mid.Offset.Y, 1e-9)

	end, _ := s.controller.Frame("card", time.Second)
	s.Equal(1.0, end.Opacity)
	s.Zero(end.Offset.Y)
}

func (s *ControllerTestSuite) TestNow_UsesClock() {
	s.Require().NoError(s.controller.Register("card"))
	s.controller.Observe(Intersection{TargetID: "card", Ratio: 1})

	s.now = s.now.Add(time.Second)
	style, err := s.controller.Now("card")
	s.Require().NoError(err)
	s.Equal(1.0, style.Opacity)
}

func (s *ControllerTestSuite) TestRun_ConsumesUntilClosed() {
	s.Require().NoError(s.controller.Register("card"))

	var mu sync.Mutex
	var seen []Transition
	s.controller.Subscribe(func(tr Transition) {
		mu.Lock()
		seen = append(seen, tr)
		mu.Unlock()
	})

	in := make(chan Intersection)
	errCh := make(chan error, 1)
	go func() { errCh <- s.controller.Run(context.Background(), in) }()

	in <- Intersection{TargetID: "card", Ratio: 0.2}
	close(in)

	s.NoError(<-errCh)
	mu.Lock()
	defer mu.Unlock()
	s.Len(seen, 1)
}

func (s *ControllerTestSuite) TestRun_StopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.ErrorIs(s.controller.Run(ctx, make(chan Intersection)), context.Canceled)
}

func TestDirection_Offset(t *testing.T) {
	cases := map[Direction]Offset{
		Up:    {Y: 50},
		Down:  {Y: -50},
		Left:  {X: 50},
		Right: {X: -50},
	}
	for d, want := range cases {
		if got := d.Offset(50); got != want {
			t.Errorf("%s: got %+v, want %+v", d, got, want)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Threshold != 0.1 || !o.TriggerOnce || o.Direction != Up || o.Delay != 0 ||
		o.Duration != 600*time.Millisecond || o.Distance != 50 {
		t.Errorf("unexpected defaults: %+v", o)
	}
}
