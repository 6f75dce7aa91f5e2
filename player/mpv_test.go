package player

import (
	"bufio"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// serveOnce listens on a fresh unix socket and hands the first connection to handle.
func serveOnce(t *testing.T, handle func(conn net.Conn)) string {
	dir, err := os.MkdirTemp("", "tc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	socket := filepath.Join(dir, "mpv.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}()

	return socket
}

func TestEventListener(t *testing.T) {
	Convey("Given an mpv socket emitting property changes", t, func() {
		release := make(chan struct{})
		socket := serveOnce(t, func(conn net.Conn) {
			reader := bufio.NewReader(conn)
			for range observed {
				if _, err := reader.ReadBytes('\n'); err != nil {
					return
				}
			}

			_, _ = conn.Write([]byte(`{"request_id":0,"error":"success"}` + "\n"))
			_, _ = conn.Write([]byte(`{"event":"property-change","id":1,"name":"pause","data":true}` + "\n"))
			_, _ = conn.Write([]byte(`{"event":"property-change","id":1,"name":"pause","data":false}` + "\n"))
			_, _ = conn.Write([]byte(`{"event":"property-change","id":3,"name":"idle-active","data":false}` + "\n"))
			_, _ = conn.Write([]byte(`{"event":"end-file","reason":"eof"}` + "\n"))
			<-release
		})

		states := make(chan State, 8)
		listener := NewEventListener(socket, func(s State) { states <- s })
		So(listener.Start(), ShouldBeNil)

		Convey("Then the changes are translated to states in order", func() {
			var got []State
			for i := 0; i < 3; i++ {
				select {
				case s := <-states:
					got = append(got, s)
				case <-time.After(2 * time.Second):
					t.Fatal("timed out waiting for state")
				}
			}

			So(got, ShouldResemble, []State{StatePaused, StatePlaying, StateStopped})
		})

		Reset(func() {
			close(release)
			listener.Stop()
		})
	})
}

func TestSendCommand(t *testing.T) {
	Convey("Given an mpv socket that broadcasts an event before replying", t, func() {
		socket := serveOnce(t, func(conn net.Conn) {
			reader := bufio.NewReader(conn)
			if _, err := reader.ReadBytes('\n'); err != nil {
				return
			}
			_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
			_, _ = conn.Write([]byte(`{"data":12.5,"request_id":0,"error":"success"}` + "\n"))
		})

		Convey("Then the reply data is returned", func() {
			data, err := doSendCommand(socket, []any{"get_property", "time-pos"})
			So(err, ShouldBeNil)
			So(data, ShouldEqual, 12.5)
		})
	})

	Convey("Given an mpv socket that rejects the command", t, func() {
		socket := serveOnce(t, func(conn net.Conn) {
			reader := bufio.NewReader(conn)
			if _, err := reader.ReadBytes('\n'); err != nil {
				return
			}
			_, _ = conn.Write([]byte(`{"request_id":0,"error":"property unavailable"}` + "\n"))
		})

		Convey("Then the mpv error is surfaced", func() {
			_, err := doSendCommand(socket, []any{"get_property", "duration"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "property unavailable")
		})
	})
}

func TestMPV(t *testing.T) {
	Convey("Given an mpv player that was never started", t, func() {
		mpv := NewMPV()

		Convey("Then pause and resume report the player unavailable", func() {
			So(errors.Is(mpv.Pause(), ErrUnavailable), ShouldBeTrue)
			So(errors.Is(mpv.Resume(), ErrUnavailable), ShouldBeTrue)
			So(mpv.IsRunning(), ShouldBeFalse)
			So(mpv.Close(), ShouldBeNil)
		})

		Convey("Then Wait does not block", func() {
			select {
			case <-mpv.Wait():
			default:
				t.Fatal("wait channel should be closed")
			}
		})

		Convey("When the same state is emitted twice", func() {
			var got []State
			unsubscribe := mpv.OnStateChange(func(s State) { got = append(got, s) })
			mpv.emit(StatePlaying)
			mpv.emit(StatePlaying)
			mpv.emit(StatePaused)

			Convey("Then subscribers see it once", func() {
				So(got, ShouldResemble, []State{StatePlaying, StatePaused})
			})

			Convey("Then unsubscribed callbacks stop receiving", func() {
				unsubscribe()
				mpv.emit(StateStopped)
				So(got, ShouldHaveLength, 2)
			})
		})
	})
}

func TestSanitize(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		valid, err := sanitizeMediaTarget("  https://www.youtube.com/watch?v=dQw4w9WgXcQ ")
		So(err, ShouldBeNil)
		So(valid, ShouldEqual, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

		for _, bad := range []string{"", "--script=evil.lua", "file:///etc/passwd", "https://x\n.com"} {
			_, err := sanitizeMediaTarget(bad)
			So(err, ShouldNotBeNil)
		}
	})

	Convey("sanitizeTitle", t, func() {
		So(sanitizeTitle(" Lo-fi\nbeats\t\x00 "), ShouldEqual, "Lo-fi beats")
	})
}

func TestStateString(t *testing.T) {
	Convey("State names", t, func() {
		So(StatePlaying.String(), ShouldEqual, "playing")
		So(StatePaused.String(), ShouldEqual, "paused")
		So(StateStopped.String(), ShouldEqual, "stopped")
		So(StateUnknown.String(), ShouldEqual, "unknown")
	})
}
