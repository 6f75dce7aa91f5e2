package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/auth"
	"github.com/tubecycle/tubecycle/key"
	"github.com/tubecycle/tubecycle/log"
	"github.com/tubecycle/tubecycle/pin"
	"github.com/tubecycle/tubecycle/player"
	"github.com/tubecycle/tubecycle/timer"
	"github.com/tubecycle/tubecycle/util"
	"github.com/tubecycle/tubecycle/youtube"
)

// session is one playing video with its player and cycle.
type session struct {
	id     int
	video  *youtube.Video
	player player.Player
	cycle  *timer.Timer

	snapshots   <-chan timer.Snapshot
	unsubscribe func()
	positions   chan positionMsg
	done        chan struct{}

	// timing belongs to this video only and starts as its pinned or default config.
	timing timer.Config

	snapshot      timer.Snapshot
	pos, duration int
}

type (
	searchResultMsg struct {
		page *youtube.Page
	}

	sessionStartedMsg struct {
		session *session
	}

	snapshotMsg struct {
		id       int
		snapshot timer.Snapshot
	}

	positionMsg struct {
		id            int
		pos, duration int
	}

	mpvExitMsg struct {
		id int
	}
)

func (b *statefulBubble) loadPinned() (tea.Cmd, error) {
	pins, err := pin.List()
	if err != nil {
		return nil, err
	}

	items := lo.Map(pins, func(p *pin.PinnedVideo, _ int) list.Item {
		return &listItem{internal: p}
	})
	return b.pinnedC.SetItems(items), nil
}

func (b *statefulBubble) ensureClient() error {
	if b.client != nil {
		return nil
	}

	apiKey, err := auth.APIKey()
	if err != nil {
		return err
	}

	client, err := youtube.NewClient(context.Background(), apiKey)
	if err != nil {
		return err
	}

	b.client = client
	return nil
}

func (b *statefulBubble) search(query, pageToken string) tea.Cmd {
	client := b.client
	return func() tea.Msg {
		log.Info("searching for " + query)
		page, err := client.Search(context.Background(), query, pageToken)
		if err != nil {
			log.Error(err)
			return err
		}
		return searchResultMsg{page: page}
	}
}

func (b *statefulBubble) lookup(id string) tea.Cmd {
	client := b.client
	return func() tea.Msg {
		video, err := client.Video(context.Background(), id)
		if err != nil {
			log.Error(err)
			return err
		}
		return video
	}
}

// videoItems wraps videos as list items, marking the pinned ones.
func videoItems(videos []*youtube.Video) []list.Item {
	return lo.Map(videos, func(v *youtube.Video, _ int) list.Item {
		found, err := pin.Find(v.ID)
		return &listItem{internal: v, marked: err == nil && found.IsPresent()}
	})
}

// timingFor picks the saved timing of a pinned video when restoring is enabled.
func (b *statefulBubble) timingFor(video *youtube.Video) timer.Config {
	if !viper.GetBool(key.PinsRestoreTiming) {
		return b.timing
	}

	found, err := pin.Find(video.ID)
	if err != nil {
		log.Warnf("pin lookup: %v", err)
		return b.timing
	}

	if p, ok := found.Get(); ok {
		if cfg := p.Config(); cfg.Validate() == nil {
			return cfg
		}
	}
	return b.timing
}

// play spawns the player and attaches a cycle timer to it.
func (b *statefulBubble) play(video *youtube.Video, cfg timer.Config) tea.Cmd {
	b.sessions++
	id := b.sessions
	newPlayer, clk := b.newPlayer, b.clock

	return func() tea.Msg {
		p := newPlayer()
		if err := p.Play(video.URL(), video.Title); err != nil {
			return fmt.Errorf("play %s: %w", video.ID, err)
		}

		cycle, err := timer.New(p, cfg, clk)
		if err != nil {
			_ = p.Close()
			return err
		}

		s := &session{
			id:        id,
			video:     video,
			player:    p,
			cycle:     cycle,
			timing:    cfg,
			positions: make(chan positionMsg, 1),
			done:      make(chan struct{}),
		}
		s.snapshots, s.unsubscribe = cycle.Subscribe()

		if viper.GetBool(key.TimerAutoStart) {
			if err := cycle.Arm(cfg); err != nil {
				log.Warnf("arm timer: %v", err)
			}
		}

		p.StartIPCTicker(func(pos, duration int) {
			select {
			case s.positions <- positionMsg{id: id, pos: pos, duration: duration}:
			default:
			}
		})

		log.Infof("playing %s with %s", video.ID, cfg)
		return sessionStartedMsg{session: s}
	}
}

func (b *statefulBubble) waitForSnapshot(s *session) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-s.snapshots
		if !ok {
			return nil
		}
		return snapshotMsg{id: s.id, snapshot: snap}
	}
}

func (b *statefulBubble) waitForPosition(s *session) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.positions:
			return msg
		case <-s.done:
			return nil
		}
	}
}

func (b *statefulBubble) waitForMpvExit(s *session) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.player.Wait():
			return mpvExitMsg{id: s.id}
		case <-s.done:
			return nil
		}
	}
}

// close tears down the cycle and the player. The player exits in the background.
func (s *session) close() {
	close(s.done)
	s.unsubscribe()
	s.cycle.Close()
	s.player.StopIPCTicker()

	go func() {
		if err := s.player.Close(); err != nil {
			log.Warnf("close player: %v", err)
		}
	}()
}

func (b *statefulBubble) endSession() {
	if b.session == nil {
		return
	}

	b.session.close()
	b.session = nil
}

// togglePin pins the video with cfg, or unpins it.
func (b *statefulBubble) togglePin(video *youtube.Video, cfg timer.Config) (pinned bool, err error) {
	found, err := pin.Find(video.ID)
	if err != nil {
		return false, err
	}

	if found.IsPresent() {
		return false, pin.Unpin(video.ID)
	}

	return true, pin.Pin(pin.PinnedVideo{
		VideoID:      video.ID,
		Title:        video.Title,
		PlaySeconds:  cfg.PlaySeconds(),
		PauseSeconds: cfg.PauseSeconds(),
	})
}

// adjustTiming changes the session timing, floored at one second, and applies it to
// the running cycle and to the pin when the video is pinned.
func (s *session) adjustTiming(playDelta, pauseDelta float64) (timer.Config, error) {
	cfg := timer.FromSeconds(
		clampSeconds(s.timing.PlaySeconds()+playDelta),
		clampSeconds(s.timing.PauseSeconds()+pauseDelta),
	)

	if err := s.cycle.UpdateConfig(cfg); err != nil {
		return s.timing, err
	}
	s.timing = cfg

	if _, err := pin.UpdateTiming(s.video.ID, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// toggleHold holds or releases the cycle off the update loop, since both
// wait for the player to answer.
func (s *session) toggleHold() tea.Cmd {
	cycle := s.cycle
	return func() tea.Msg {
		if cycle.Snapshot().Phase == timer.Held {
			cycle.Release()
		} else {
			cycle.Hold()
		}
		return nil
	}
}

const (
	minSeconds = 1.0
	maxSeconds = 3600.0
)

func clampSeconds(s float64) float64 {
	return util.Clamp(s, minSeconds, maxSeconds)
}
