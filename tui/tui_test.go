package tui

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/clock"
	"github.com/tubecycle/tubecycle/filesystem"
	"github.com/tubecycle/tubecycle/key"
	"github.com/tubecycle/tubecycle/pin"
	"github.com/tubecycle/tubecycle/player"
	"github.com/tubecycle/tubecycle/timer"
	"github.com/tubecycle/tubecycle/youtube"
	"golang.org/x/exp/slices"
)

func init() {
	filesystem.SetMemMapFs()
}

type stubPlayer struct {
	mu      sync.Mutex
	played  []string
	pauses  int
	resumes int
	closed  bool
	subs    []func(player.State)
	exited  chan struct{}
}

func newStubPlayer() *stubPlayer {
	return &stubPlayer{exited: make(chan struct{})}
}

func (p *stubPlayer) Play(url, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, url)
	return nil
}

func (p *stubPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses++
	return nil
}

func (p *stubPlayer) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resumes++
	return nil
}

func (p *stubPlayer) OnStateChange(fn func(player.State)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
	return func() {}
}

func (p *stubPlayer) emit(s player.State) {
	p.mu.Lock()
	subs := slices.Clone(p.subs)
	p.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

func (p *stubPlayer) GetTimePos() (float64, error)  { return 0, nil }
func (p *stubPlayer) GetDuration() (float64, error) { return 0, nil }
func (p *stubPlayer) IsRunning() bool               { return true }
func (p *stubPlayer) Wait() <-chan struct{}         { return p.exited }
func (p *stubPlayer) Socket() string                { return "" }
func (p *stubPlayer) StartIPCTicker(func(int, int)) {}
func (p *stubPlayer) StopIPCTicker()                {}

func (p *stubPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func press(b *statefulBubble, keys string) {
	for _, r := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}}
		}
		b.Update(msg)
	}
}

func TestStatusLine(t *testing.T) {
	Convey("Given plain icons", t, func() {
		viper.Set(key.IconsVariant, "plain")
		cfg := timer.FromSeconds(5, 3)

		Convey("Idle reads as the initial state until armed", func() {
			So(StatusLine(timer.Snapshot{Phase: timer.Idle, Config: cfg}), ShouldEqual, "Initial State")
			So(StatusLine(timer.Snapshot{Phase: timer.Idle, Config: cfg, Armed: true}), ShouldEqual, "Waiting for playback")
		})

		Convey("Countdowns show the remaining seconds", func() {
			snap := timer.Snapshot{Phase: timer.CountingDownToPause, Remaining: 2500 * time.Millisecond, Total: 5 * time.Second, Config: cfg}
			So(StatusLine(snap), ShouldEqual, "> Playing (2.5s)")

			snap = timer.Snapshot{Phase: timer.CountingDownToResume, Remaining: time.Second, Total: 3 * time.Second, Config: cfg}
			So(StatusLine(snap), ShouldEqual, "|| Paused (1.0s)")
		})

		Convey("Held has no countdown", func() {
			So(StatusLine(timer.Snapshot{Phase: timer.Held, Config: cfg}), ShouldEqual, "[hold] Holding")
		})
	})
}

func TestListItem(t *testing.T) {
	Convey("Given a video and a pin", t, func() {
		viper.Set(key.TUIShowURLs, false)
		video := &youtube.Video{ID: "dQw4w9WgXcQ", Title: "Song", Channel: "Artist"}
		pinned := &pin.PinnedVideo{VideoID: "dQw4w9WgXcQ", Title: "Song", PlaySeconds: 5, PauseSeconds: 3}

		Convey("Both render their titles", func() {
			So((&listItem{internal: video}).Title(), ShouldEqual, "Song")
			So((&listItem{internal: pinned}).Title(), ShouldEqual, "Song")
		})

		Convey("Videos filter by title and channel", func() {
			So((&listItem{internal: video}).FilterValue(), ShouldEqual, "Song Artist")
		})

		Convey("Pins describe their timing", func() {
			desc := (&listItem{internal: pinned}).Description()
			So(desc, ShouldContainSubstring, "play 5s")
			So(desc, ShouldContainSubstring, "pause 3s")
		})

		Convey("Both resolve to a playable video", func() {
			So((&listItem{internal: pinned}).video().URL(), ShouldEqual, video.URL())
			So((&listItem{internal: "other"}).video(), ShouldBeNil)
		})
	})
}

func TestKeymapHelp(t *testing.T) {
	Convey("Given the keymap", t, func() {
		k := newStatefulKeymap()

		Convey("Every interactive state has help", func() {
			for _, s := range []state{loadingState, searchState, resultsState, pinnedState, playState, errorState} {
				k.setState(s)
				So(k.ShortHelp(), ShouldNotBeEmpty)
				So(k.FullHelp()[0], ShouldNotBeEmpty)
			}
		})

		Convey("The play view lists the timing keys", func() {
			k.setState(playState)
			So(k.FullHelp()[0], ShouldContain, k.playLonger)
			So(k.FullHelp()[0], ShouldContain, k.pauseShorter)
		})
	})
}

func TestPlaySession(t *testing.T) {
	Convey("Given a bubble with a stub player", t, func() {
		viper.Set(key.TimerAutoStart, true)
		viper.Set(key.PinsRestoreTiming, true)
		So(pin.Clear(), ShouldBeNil)

		stub := newStubPlayer()
		b := newBubble(&Options{Timing: timer.FromSeconds(5, 3)})
		b.newPlayer = func() player.Player { return stub }
		b.clock = clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
		b.setState(resultsState)

		video := &youtube.Video{ID: "dQw4w9WgXcQ", Title: "Song", Channel: "Artist"}
		b.startLoading("Starting player...")
		b.Update(b.play(video, b.timing)())

		Convey("It enters the play view with an armed cycle", func() {
			So(b.state, ShouldEqual, playState)
			So(b.session, ShouldNotBeNil)
			So(stub.played, ShouldResemble, []string{video.URL()})
			So(b.session.cycle.Snapshot().Armed, ShouldBeTrue)

			stub.emit(player.StatePlaying)
			So(b.session.cycle.Snapshot().Phase, ShouldEqual, timer.CountingDownToPause)
		})

		Convey("Timing keys adjust the running cycle", func() {
			press(b, "]]}")
			So(b.session.timing, ShouldResemble, timer.FromSeconds(7, 4))
			So(b.session.cycle.Snapshot().Config, ShouldResemble, timer.FromSeconds(7, 4))

			Convey("And never go below one second", func() {
				press(b, "[[[[[[[[[[{{{{{{")
				So(b.session.timing, ShouldResemble, timer.FromSeconds(1, 1))
			})

			Convey("And leave the default for other videos alone", func() {
				So(b.timing, ShouldResemble, timer.FromSeconds(5, 3))
			})
		})

		Convey("A pinned timing stays with its video", func() {
			other := &youtube.Video{ID: "9bZkp7q19f0", Title: "Other"}
			So(pin.Pin(pin.PinnedVideo{VideoID: other.ID, Title: other.Title, PlaySeconds: 9, PauseSeconds: 9}), ShouldBeNil)

			b.startLoading("Starting player...")
			_, cmd := b.Update(other)
			So(cmd, ShouldNotBeNil)
			b.Update(cmd())

			So(b.session.video, ShouldEqual, other)
			So(b.session.timing, ShouldResemble, timer.FromSeconds(9, 9))
			So(b.timing, ShouldResemble, timer.FromSeconds(5, 3))
			So(b.timingFor(video), ShouldResemble, timer.FromSeconds(5, 3))
		})

		Convey("Space holds and releases", func() {
			space := func() {
				_, cmd := b.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
				So(cmd, ShouldNotBeNil)
				So(cmd(), ShouldBeNil)
			}

			space()
			So(b.session.cycle.Snapshot().Phase, ShouldEqual, timer.Held)
			So(stub.pauses, ShouldEqual, 1)

			space()
			So(b.session.cycle.Snapshot().Phase, ShouldEqual, timer.CountingDownToPause)
			So(stub.resumes, ShouldEqual, 1)
		})

		Convey("'a' toggles the auto cycle", func() {
			press(b, "a")
			So(b.session.cycle.Snapshot().Armed, ShouldBeFalse)
			press(b, "a")
			So(b.session.cycle.Snapshot().Armed, ShouldBeTrue)
		})

		Convey("Pinning saves the current timing and later adjustments", func() {
			press(b, "p")
			found, err := pin.Find(video.ID)
			So(err, ShouldBeNil)
			So(found.MustGet().Config(), ShouldResemble, timer.FromSeconds(5, 3))

			press(b, "]")
			found, _ = pin.Find(video.ID)
			So(found.MustGet().Config(), ShouldResemble, timer.FromSeconds(6, 3))

			Convey("And the pinned timing is restored for the next play", func() {
				b.timing = timer.FromSeconds(10, 10)
				So(b.timingFor(video), ShouldResemble, timer.FromSeconds(6, 3))
			})
		})

		Convey("Messages from an older session are ignored", func() {
			current := b.session
			b.Update(mpvExitMsg{id: current.id + 1})
			So(b.session, ShouldEqual, current)
			So(b.state, ShouldEqual, playState)
		})

		Convey("Leaving the play view ends the session", func() {
			s := b.session
			b.Update(tea.KeyMsg{Type: tea.KeyEsc})
			So(b.session, ShouldBeNil)
			So(b.state, ShouldEqual, resultsState)
			So(s.cycle.UpdateConfig(timer.FromSeconds(1, 1)), ShouldEqual, timer.ErrClosed)
		})

		Reset(func() {
			b.endSession()
		})
	})
}
