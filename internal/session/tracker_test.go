package session_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-labs/hookgate/internal/session"
	"github.com/smykla-labs/hookgate/internal/statestore"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/hook"
)

var _ = Describe("Tracker", func() {
	var (
		tracker     *session.Tracker
		store       *statestore.Store
		tempDir     string
		currentTime time.Time
		timeFunc    func() time.Time
	)

	bashEvent := func(sessionID, command string) *hook.Context {
		return &hook.Context{
			EventType: hook.EventTypePreToolUse,
			ToolName:  hook.ToolTypeBash,
			ToolInput: hook.ToolInput{Command: command},
			SessionID: sessionID,
		}
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "session-test-*")
		Expect(err).NotTo(HaveOccurred())

		store = statestore.New(tempDir)
		currentTime = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
		timeFunc = func() time.Time { return currentTime }

		tracker = session.NewTracker(store, nil, session.WithTimeFunc(timeFunc))
	})

	AfterEach(func() {
		if tempDir != "" {
			_ = os.RemoveAll(tempDir)
		}
	})

	Describe("Record", func() {
		It("creates a session on first sight", func() {
			tracker.Record(bashEvent("sess-1", "ls"), false)

			info := tracker.Get("sess-1")
			Expect(info).NotTo(BeNil())
			Expect(info.EventCount).To(Equal(1))
			Expect(info.CommandCount).To(Equal(1))
			Expect(info.StartedAt).To(Equal(currentTime))
		})

		It("counts commands and denials separately", func() {
			tracker.Record(bashEvent("sess-1", "ls"), false)
			tracker.Record(bashEvent("sess-1", "rm -rf /"), true)

			writeEvent := &hook.Context{
				EventType: hook.EventTypePreToolUse,
				ToolName:  hook.ToolTypeWrite,
				ToolInput: hook.ToolInput{FilePath: "notes.md"},
				SessionID: "sess-1",
			}
			tracker.Record(writeEvent, false)

			info := tracker.Get("sess-1")
			Expect(info.EventCount).To(Equal(3))
			Expect(info.CommandCount).To(Equal(2))
			Expect(info.DenyCount).To(Equal(1))
		})

		It("ignores contexts without a session ID", func() {
			tracker.Record(bashEvent("", "ls"), false)
			Expect(tracker.Count()).To(BeZero())
		})

		It("tracks sessions independently", func() {
			tracker.Record(bashEvent("sess-1", "ls"), false)
			tracker.Record(bashEvent("sess-2", "pwd"), false)

			Expect(tracker.Count()).To(Equal(2))
			Expect(tracker.Get("sess-1").CommandCount).To(Equal(1))
		})
	})

	Describe("expiry", func() {
		It("drops sessions older than the max age", func() {
			tracker.Record(bashEvent("old", "ls"), false)

			currentTime = currentTime.Add(25 * time.Hour)
			tracker.Record(bashEvent("new", "pwd"), false)

			Expect(tracker.Get("old")).To(BeNil())
			Expect(tracker.Get("new")).NotTo(BeNil())
		})

		It("honors a configured max age", func() {
			cfg := &config.SessionConfig{MaxAge: config.Duration(time.Hour)}

			tracker = session.NewTracker(store, cfg, session.WithTimeFunc(timeFunc))
			tracker.Record(bashEvent("short-lived", "ls"), false)

			currentTime = currentTime.Add(2 * time.Hour)
			tracker.Record(bashEvent("other", "pwd"), false)

			Expect(tracker.Get("short-lived")).To(BeNil())
		})

		It("keeps active sessions alive", func() {
			tracker.Record(bashEvent("active", "ls"), false)

			for range 5 {
				currentTime = currentTime.Add(12 * time.Hour)
				tracker.Record(bashEvent("active", "pwd"), false)
			}

			Expect(tracker.Get("active")).NotTo(BeNil())
			Expect(tracker.Get("active").EventCount).To(Equal(6))
		})
	})

	Describe("persistence", func() {
		It("round-trips state through the store", func() {
			tracker.Record(bashEvent("sess-1", "ls"), true)
			Expect(tracker.Save()).To(Succeed())

			reloaded := session.NewTracker(store, nil, session.WithTimeFunc(timeFunc))
			Expect(reloaded.Load()).To(Succeed())

			info := reloaded.Get("sess-1")
			Expect(info).NotTo(BeNil())
			Expect(info.DenyCount).To(Equal(1))
		})

		It("expires stale sessions on load", func() {
			tracker.Record(bashEvent("stale", "ls"), false)
			Expect(tracker.Save()).To(Succeed())

			currentTime = currentTime.Add(48 * time.Hour)

			reloaded := session.NewTracker(store, nil, session.WithTimeFunc(timeFunc))
			Expect(reloaded.Load()).To(Succeed())
			Expect(reloaded.Get("stale")).To(BeNil())
		})
	})
})
