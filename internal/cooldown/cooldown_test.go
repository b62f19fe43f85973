package cooldown_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-labs/hookgate/internal/cooldown"
	"github.com/smykla-labs/hookgate/internal/statestore"
)

var _ = Describe("Limiter", func() {
	var (
		limiter     *cooldown.Limiter
		store       *statestore.Store
		tempDir     string
		currentTime time.Time
		timeFunc    func() time.Time
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "cooldown-test-*")
		Expect(err).NotTo(HaveOccurred())

		store = statestore.New(tempDir)
		currentTime = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
		timeFunc = func() time.Time { return currentTime }

		limiter = cooldown.NewLimiter(store, cooldown.WithTimeFunc(timeFunc))
	})

	AfterEach(func() {
		if tempDir != "" {
			_ = os.RemoveAll(tempDir)
		}
	})

	Describe("Allow", func() {
		It("allows the first trigger for a label", func() {
			Expect(limiter.Allow("git_commit", 2*time.Second)).To(BeTrue())
		})

		It("suppresses a second trigger inside the window", func() {
			Expect(limiter.Allow("git_commit", 2*time.Second)).To(BeTrue())

			currentTime = currentTime.Add(500 * time.Millisecond)
			Expect(limiter.Allow("git_commit", 2*time.Second)).To(BeFalse())
		})

		It("allows again once the window has passed", func() {
			Expect(limiter.Allow("git_commit", 2*time.Second)).To(BeTrue())

			currentTime = currentTime.Add(3 * time.Second)
			Expect(limiter.Allow("git_commit", 2*time.Second)).To(BeTrue())
		})

		It("tracks labels independently", func() {
			Expect(limiter.Allow("git_commit", 2*time.Second)).To(BeTrue())
			Expect(limiter.Allow("tests_failed", 2*time.Second)).To(BeTrue())
		})

		It("does not extend the window on suppressed triggers", func() {
			Expect(limiter.Allow("ready", 2*time.Second)).To(BeTrue())

			// Keep triggering inside the window: attempts at 0.6s,
			// 1.2s, and 1.8s. None of these should push the
			// last-fired time forward.
			for range 3 {
				currentTime = currentTime.Add(600 * time.Millisecond)
				Expect(limiter.Allow("ready", 2*time.Second)).To(BeFalse())
			}

			// 2.2s after the original fire the window has expired,
			// even though the last suppressed attempt was only 400ms
			// ago.
			currentTime = currentTime.Add(400 * time.Millisecond)
			Expect(limiter.Allow("ready", 2*time.Second)).To(BeTrue())
		})
	})

	Describe("persistence", func() {
		It("round-trips state through the store", func() {
			Expect(limiter.Allow("risky_command", 10*time.Second)).To(BeTrue())
			Expect(limiter.Save()).To(Succeed())

			reloaded := cooldown.NewLimiter(store, cooldown.WithTimeFunc(timeFunc))
			Expect(reloaded.Load()).To(Succeed())

			currentTime = currentTime.Add(time.Second)
			Expect(reloaded.Allow("risky_command", 10*time.Second)).To(BeFalse())
		})

		It("starts fresh when no state file exists", func() {
			Expect(limiter.Load()).To(Succeed())
			Expect(limiter.Allow("anything", time.Second)).To(BeTrue())
		})

		It("starts fresh on a corrupt state file", func() {
			path := filepath.Join(tempDir, "cooldowns.json")
			Expect(os.WriteFile(path, []byte("{not json"), 0o600)).To(Succeed())

			Expect(limiter.Load()).To(Succeed())
			Expect(limiter.Allow("anything", time.Second)).To(BeTrue())
		})

		It("suppressed triggers are not persisted", func() {
			Expect(limiter.Allow("ready", 5*time.Second)).To(BeTrue())
			Expect(limiter.Save()).To(Succeed())

			firstSave, err := os.ReadFile(filepath.Join(tempDir, "cooldowns.json"))
			Expect(err).NotTo(HaveOccurred())

			currentTime = currentTime.Add(time.Second)
			Expect(limiter.Allow("ready", 5*time.Second)).To(BeFalse())
			Expect(limiter.Save()).To(Succeed())

			secondSave, err := os.ReadFile(filepath.Join(tempDir, "cooldowns.json"))
			Expect(err).NotTo(HaveOccurred())

			Expect(string(secondSave)).To(Equal(string(firstSave)))
		})
	})

	Describe("Reset", func() {
		It("clears all labels", func() {
			Expect(limiter.Allow("ready", time.Hour)).To(BeTrue())
			limiter.Reset()
			Expect(limiter.Allow("ready", time.Hour)).To(BeTrue())
		})
	})
})
