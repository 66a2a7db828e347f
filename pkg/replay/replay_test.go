package replay_test

import (
	"testing"

	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/killallgit/agentflow/pkg/recorder"
	"github.com/killallgit/agentflow/pkg/render"
	"github.com/killallgit/agentflow/pkg/replay"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReplay(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Replay Suite")
}

func stripMode(calls []render.Call) []render.Call {
	out := make([]render.Call, len(calls))
	for i, c := range calls {
		c.Mode = 0
		c.Expanded = false
		out[i] = c
	}
	return out
}

var _ = Describe("Replay", func() {
	var capture *render.Capture

	BeforeEach(func() {
		capture = render.NewCapture()
	})

	Describe("Dispatch", func() {
		It("should route each variant to its renderer call", func() {
			replay.Dispatch(flow.NewText("hello"), capture)
			replay.Dispatch(flow.NewToolCall("calculator", nil, "c1"), capture)
			replay.Dispatch(flow.NewToolResult("c1", flow.StatusSuccess, nil), capture)

			Expect(capture.Kinds()).To(Equal([]string{render.KindText, render.KindToolCall, render.KindToolResult}))
		})

		It("should skip unknown and malformed entries", func() {
			replay.Dispatch(flow.Entry{Type: "thinking", Text: "hm"}, capture)
			replay.Dispatch(flow.Entry{Type: flow.TypeToolCall}, capture)
			replay.Dispatch(flow.Entry{Type: flow.TypeToolResult}, capture)

			Expect(capture.Calls()).To(BeEmpty())
		})
	})

	Describe("Message", func() {
		It("should draw the flow in stored order and ignore the content", func() {
			msg := chat.NewAssistantMessage("transcript only", flow.Conversation{
				flow.NewText("Let me check the weather."),
				flow.NewToolCall("get_weather", map[string]any{"city": "NYC"}, "t1"),
				flow.NewToolResult("t1", flow.StatusSuccess, []flow.ContentItem{flow.TextItem("72F")}),
				flow.NewText("It is 72F in NYC."),
			})

			replay.Message(msg, capture)

			Expect(capture.Kinds()).To(Equal([]string{
				render.KindBegin, render.KindText, render.KindToolCall, render.KindToolResult, render.KindText, render.KindEnd,
			}))
			calls := capture.Calls()
			Expect(calls[0].Mode).To(Equal(render.ModeReplay))
			Expect(calls[1].Text).To(Equal("Let me check the weather."))
			Expect(calls[3].Expanded).To(BeFalse())
			Expect(calls[4].Text).To(Equal("It is 72F in NYC."))
		})

		It("should fall back to content then legacy tools and results", func() {
			msg := chat.Message{
				Role:    chat.RoleAssistant,
				Content: "old answer",
				Tools:   []flow.ToolCall{{Name: "calculator", ID: "c1"}},
				Results: []flow.ToolResult{{ToolUseID: "c1", Status: "error"}},
			}

			replay.Message(msg, capture)

			Expect(capture.Kinds()).To(Equal([]string{
				render.KindBegin, render.KindText, render.KindToolCall, render.KindToolResult, render.KindEnd,
			}))
			Expect(capture.Calls()[3].Expanded).To(BeTrue())
		})

		It("should treat an empty flow as absent", func() {
			msg := chat.NewAssistantMessage("plain answer", flow.Conversation{})

			replay.Message(msg, capture)

			Expect(capture.Kinds()).To(Equal([]string{render.KindBegin, render.KindText, render.KindEnd}))
			Expect(capture.Calls()[1].Text).To(Equal("plain answer"))
		})

		It("should draw user messages as text", func() {
			replay.Message(chat.NewUserMessage("what is 2*3?"), capture)

			calls := capture.Calls()
			Expect(calls).To(HaveLen(3))
			Expect(calls[0].Role).To(Equal(chat.RoleUser))
			Expect(calls[1].Text).To(Equal("what is 2*3?"))
		})

		It("should draw nothing between begin and end for an empty message", func() {
			replay.Message(chat.NewAssistantMessage("", nil), capture)

			Expect(capture.Kinds()).To(Equal([]string{render.KindBegin, render.KindEnd}))
		})
	})

	Describe("History", func() {
		It("should draw every message in order", func() {
			replay.History([]chat.Message{
				chat.NewUserMessage("q"),
				chat.NewAssistantMessage("a", nil),
			}, capture)

			calls := capture.Calls()
			Expect(calls).To(HaveLen(6))
			Expect(calls[0].Role).To(Equal(chat.RoleUser))
			Expect(calls[3].Role).To(Equal(chat.RoleAssistant))
		})
	})

	It("should reproduce the live call sequence", func() {
		live := render.NewCapture()
		live.BeginMessage(chat.RoleAssistant, render.ModeLive)
		rec := recorder.New(recorder.WithEntryObserver(func(e flow.Entry) {
			replay.Dispatch(e, live)
		}))

		rec.OnTextChunk("Let me")
		rec.OnTextComplete("Let me check the weather.")
		rec.OnToolUse("get_weather", map[string]any{"city": "NYC"}, "t1")
		rec.OnToolResult("t1", flow.StatusSuccess, []flow.ContentItem{flow.TextItem("72F")})
		rec.OnTextChunk("It is 72F.")
		msg := rec.Finalize("")
		live.EndMessage()

		replay.Message(msg, capture)

		Expect(stripMode(capture.Calls())).To(Equal(stripMode(live.Calls())))
	})
})
