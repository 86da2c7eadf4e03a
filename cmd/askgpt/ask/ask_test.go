package askcmder

import (
	"bytes"
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ask Command", func() {
	var (
		ctx context.Context
		out *bytes.Buffer
	)

	BeforeEach(func() {
		ctx = context.Background()
		out = &bytes.Buffer{}
	})

	It("requires exactly one prompt argument", func() {
		cmd := NewAskCmd()
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs([]string{})

		err := cmd.ExecuteContext(ctx)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an empty prompt before touching the desktop", func() {
		cmd := NewAskCmd()
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs([]string{""})

		err := cmd.ExecuteContext(ctx)
		Expect(err).To(MatchError(ContainSubstring("prompt must not be empty")))
	})

	It("fails fast on an unreadable config file", func() {
		cmd := NewAskCmd()
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs([]string{"--config", filepath.Join(GinkgoT().TempDir(), "missing.toml"), "hello"})

		err := cmd.ExecuteContext(ctx)
		Expect(err).To(MatchError(ContainSubstring("could not read config")))
	})
})
