package chat_test

import (
	"github.com/killallgit/agentflow/pkg/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SplitThinking", func() {
	It("should leave plain content alone", func() {
		t := chat.SplitThinking("  just an answer ")
		Expect(t.Reasoning).To(BeEmpty())
		Expect(t.Response).To(Equal("just an answer"))
	})

	It("should separate think blocks", func() {
		t := chat.SplitThinking("<think>\nadd the numbers\n</think>\nThe answer is 6.")
		Expect(t.Reasoning).To(Equal("add the numbers"))
		Expect(t.Response).To(Equal("The answer is 6."))
	})

	It("should join several blocks and accept thinking tags in any case", func() {
		t := chat.SplitThinking("<THINK>one</THINK>mid<thinking>two</thinking><think>  </think>end")
		Expect(t.Reasoning).To(Equal("one\n\ntwo"))
		Expect(t.Response).To(Equal("midend"))
	})

	It("should strip thinking", func() {
		Expect(chat.StripThinking("<think>x</think>Thought: use it")).To(Equal("Thought: use it"))
	})
})
