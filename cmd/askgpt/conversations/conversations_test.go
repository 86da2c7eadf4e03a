package convcmder

import (
	"bytes"
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Conversations Command", func() {
	It("accepts no positional arguments", func() {
		out := &bytes.Buffer{}
		cmd := NewConversationsCmd()
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs([]string{"unexpected"})

		err := cmd.ExecuteContext(context.Background())
		Expect(err).To(HaveOccurred())
	})

	It("fails fast on an unreadable config file", func() {
		out := &bytes.Buffer{}
		cmd := NewConversationsCmd()
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs([]string{"--config", filepath.Join(GinkgoT().TempDir(), "missing.toml")})

		err := cmd.ExecuteContext(context.Background())
		Expect(err).To(MatchError(ContainSubstring("could not read config")))
	})
})
