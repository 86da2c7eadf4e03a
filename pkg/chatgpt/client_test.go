package chatgpt_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/askgpt/pkg/chatgpt"
)

// fakeRunner records every script it is asked to run and answers from a
// caller-provided handler.
type fakeRunner struct {
	scripts []string
	handle  func(script string) (string, error)
}

func (f *fakeRunner) Run(_ context.Context, script string) (string, error) {
	f.scripts = append(f.scripts, script)
	if f.handle == nil {
		return "", nil
	}
	return f.handle(script)
}

func isProbe(script string) bool {
	return strings.Contains(script, "name of processes")
}

// fastConfig shrinks every delay so specs do not sleep.
func fastConfig() chatgpt.Config {
	cfg := chatgpt.DefaultConfig()
	cfg.LaunchSettleDelay = time.Millisecond
	cfg.ActivateDelay = time.Millisecond
	cfg.GenerationWaitDelay = time.Millisecond
	return cfg
}

var _ = Describe("Client", func() {
	var (
		ctx    context.Context
		runner *fakeRunner
		client *chatgpt.Client
	)

	newClient := func() *chatgpt.Client {
		return chatgpt.New(runner, fastConfig(), zap.NewNop())
	}

	BeforeEach(func() {
		ctx = context.Background()
		runner = &fakeRunner{}
	})

	Describe("EnsureAvailable", func() {
		It("is a no-op when the app is already running", func() {
			runner.handle = func(string) (string, error) { return "true", nil }
			client = newClient()

			Expect(client.EnsureAvailable(ctx)).To(Succeed())
			Expect(runner.scripts).To(HaveLen(1))
			Expect(runner.scripts[0]).To(ContainSubstring(`name of processes) contains "ChatGPT"`))
		})

		It("launches the app when the probe reports it absent", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "false", nil
				}
				return "", nil
			}
			client = newClient()

			Expect(client.EnsureAvailable(ctx)).To(Succeed())
			Expect(runner.scripts).To(HaveLen(2))
			Expect(runner.scripts[1]).To(Equal(`tell application "ChatGPT" to activate`))
		})

		It("classifies a failing probe as an access failure", func() {
			runner.handle = func(string) (string, error) {
				return "", errors.New("osascript failed: not authorized")
			}
			client = newClient()

			err := client.EnsureAvailable(ctx)
			var cerr *chatgpt.Error
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Code).To(Equal(chatgpt.FailureAccess))
			Expect(err.Error()).To(ContainSubstring("not authorized"))
		})

		It("wraps an interrupted settle wait as a launch failure", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "false", nil
				}
				return "", nil
			}
			cfg := fastConfig()
			cfg.LaunchSettleDelay = time.Hour
			client = chatgpt.New(runner, cfg, zap.NewNop())

			canceled, cancel := context.WithCancel(ctx)
			cancel()

			err := client.EnsureAvailable(canceled)
			var cerr *chatgpt.Error
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Code).To(Equal(chatgpt.FailureLaunch))
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})

		It("classifies a failing launch as a launch failure", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "false", nil
				}
				return "", errors.New("osascript failed: app missing")
			}
			client = newClient()

			err := client.EnsureAvailable(ctx)
			var cerr *chatgpt.Error
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Code).To(Equal(chatgpt.FailureLaunch))
			Expect(err.Error()).To(ContainSubstring("app missing"))
		})
	})

	Describe("Ask", func() {
		It("types the prompt and returns the scraped reply", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "true", nil
				}
				return "Four.", nil
			}
			client = newClient()

			reply, err := client.Ask(ctx, "What is 2+2?", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(reply).To(Equal("Four."))

			Expect(runner.scripts).To(HaveLen(2))
			ask := runner.scripts[1]
			Expect(ask).To(ContainSubstring(`keystroke "What is 2+2?"`))
			Expect(ask).To(ContainSubstring("keystroke return"))
			Expect(ask).To(ContainSubstring("text area 2 of group 1 of group 1 of window 1"))
			Expect(ask).NotTo(ContainSubstring("click button"))
		})

		It("escapes quotes embedded in the prompt", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "true", nil
				}
				return "ok", nil
			}
			client = newClient()

			_, err := client.Ask(ctx, `say "hi"`, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(runner.scripts[1]).To(ContainSubstring(`keystroke "say \"hi\""`))
		})

		It("clicks the conversation button when an id is supplied", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "true", nil
				}
				return "ok", nil
			}
			client = newClient()

			_, err := client.Ask(ctx, "hello", "Weekend plans")
			Expect(err).NotTo(HaveOccurred())

			ask := runner.scripts[1]
			Expect(ask).To(ContainSubstring(`click button "Weekend plans" of group 1 of group 1 of window 1`))
			// The click is best-effort: it must sit inside the script's own try block.
			Expect(strings.Index(ask, "try")).To(BeNumerically("<", strings.Index(ask, "click button")))
		})

		It("does not run the ask script when the probe fails", func() {
			runner.handle = func(string) (string, error) {
				return "", errors.New("probe exploded")
			}
			client = newClient()

			_, err := client.Ask(ctx, "hello", "")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("probe exploded"))
			Expect(runner.scripts).To(HaveLen(1))
		})

		It("wraps a script failure as an interaction failure", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "true", nil
				}
				return "", errors.New("osascript failed: window 1 not found")
			}
			client = newClient()

			_, err := client.Ask(ctx, "hello", "")
			var cerr *chatgpt.Error
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Code).To(Equal(chatgpt.FailureInteraction))
			Expect(err.Error()).To(ContainSubstring("window 1 not found"))
		})
	})

	Describe("ListConversations", func() {
		It("splits the engine result on the literal separator", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "true", nil
				}
				return "Alpha, Beta, Gamma", nil
			}
			client = newClient()

			Expect(client.ListConversations(ctx)).To(Equal([]string{"Alpha", "Beta", "Gamma"}))
		})

		It("drops the New chat button from the result", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "true", nil
				}
				return "New chat, Alpha", nil
			}
			client = newClient()

			Expect(client.ListConversations(ctx)).To(Equal([]string{"Alpha"}))
		})

		It("returns an empty list when there are no buttons", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "true", nil
				}
				return "", nil
			}
			client = newClient()

			Expect(client.ListConversations(ctx)).To(BeEmpty())
		})

		It("degrades to the sentinel list when enumeration fails", func() {
			runner.handle = func(script string) (string, error) {
				if isProbe(script) {
					return "true", nil
				}
				return "", errors.New("osascript failed: group 1 not found")
			}
			client = newClient()

			Expect(client.ListConversations(ctx)).To(Equal([]string{chatgpt.SentinelNoConversations}))
		})

		It("degrades to the sentinel list when the probe fails", func() {
			runner.handle = func(string) (string, error) {
				return "", errors.New("no accessibility permission")
			}
			client = newClient()

			Expect(client.ListConversations(ctx)).To(Equal([]string{chatgpt.SentinelNoConversations}))
			Expect(runner.scripts).To(HaveLen(1))
		})
	})

	Describe("UILocator", func() {
		It("renders the container reference from its ordinals", func() {
			l := chatgpt.UILocator{Window: 2, Groups: []int{3, 1}}
			Expect(l.Container()).To(Equal("group 3 of group 1 of window 2"))
		})

		It("renders the reply element reference", func() {
			l := chatgpt.DefaultLocator()
			Expect(l.ReplyElement()).To(Equal("text area 2 of group 1 of group 1 of window 1"))
		})
	})
})
