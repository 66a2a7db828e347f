package chat_test

import (
	"os"
	"path/filepath"

	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/flow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("History", func() {
	var history *chat.History

	BeforeEach(func() {
		history = chat.NewHistory()
	})

	It("should start empty", func() {
		Expect(history.Len()).To(Equal(0))
		Expect(history.Messages()).To(BeEmpty())
		Expect(history.LastN(3)).To(BeEmpty())
	})

	It("should keep messages in append order", func() {
		history.Append(chat.NewUserMessage("one"))
		history.Append(chat.NewAssistantMessage("two", nil))
		history.Append(chat.NewUserMessage("three"))

		msgs := history.Messages()
		Expect(msgs).To(HaveLen(3))
		Expect(msgs[0].Content).To(Equal("one"))
		Expect(msgs[1].Content).To(Equal("two"))
		Expect(msgs[2].Content).To(Equal("three"))

		last := history.LastN(2)
		Expect(last).To(HaveLen(2))
		Expect(last[0].Content).To(Equal("two"))
		Expect(history.LastN(10)).To(HaveLen(3))
	})

	It("should hand out copies", func() {
		history.Append(chat.NewUserMessage("original"))
		msgs := history.Messages()
		msgs[0].Content = "changed"

		Expect(history.Messages()[0].Content).To(Equal("original"))
	})

	It("should clear", func() {
		history.Append(chat.NewUserMessage("one"))
		history.Clear()
		Expect(history.Len()).To(Equal(0))
	})

	Describe("Stats", func() {
		It("should count roles and tool calls", func() {
			history.Append(chat.NewUserMessage("q1"))
			history.Append(chat.NewAssistantMessage("a1", flow.Conversation{
				flow.NewToolCall("calculator", nil, "1"),
				flow.NewToolResult("1", flow.StatusSuccess, nil),
				flow.NewToolCall("calculator", nil, "2"),
			}))
			history.Append(chat.NewUserMessage("q2"))
			history.Append(chat.NewAssistantMessage("a2", nil))

			Expect(history.Stats()).To(Equal(chat.Stats{
				UserMessages:      2,
				AssistantMessages: 2,
				ToolCalls:         2,
			}))
		})
	})

	Describe("Save and LoadHistory", func() {
		var path string

		BeforeEach(func() {
			path = filepath.Join(GinkgoT().TempDir(), "nested", "history.json")
		})

		It("should round trip the flow", func() {
			history.Append(chat.NewUserMessage("weather?"))
			history.Append(chat.NewAssistantMessage("Let me check the weather.", flow.Conversation{
				flow.NewText("Let me check the weather."),
				flow.NewToolCall("get_weather", map[string]any{"city": "NYC"}, "t1"),
				flow.NewToolResult("t1", flow.StatusSuccess, []flow.ContentItem{flow.TextItem("72F")}),
			}))

			Expect(history.Save(path)).To(Succeed())

			loaded, err := chat.LoadHistory(path)
			Expect(err).ToNot(HaveOccurred())
			msgs := loaded.Messages()
			Expect(msgs).To(HaveLen(2))
			Expect(msgs[1].Flow).To(HaveLen(3))
			Expect(msgs[1].Flow[1].ToolCall.Input).To(HaveKeyWithValue("city", "NYC"))
			Expect(msgs[1].Flow[2].ToolResult.Content[0].Text).To(Equal("72F"))
		})

		It("should load records without a flow", func() {
			legacy := `{"messages":[{"role":"assistant","content":"hi","tools":[{"name":"calculator","input":{"x":1},"tool_use_id":""}]}]}`
			Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
			Expect(os.WriteFile(path, []byte(legacy), 0644)).To(Succeed())

			loaded, err := chat.LoadHistory(path)
			Expect(err).ToNot(HaveOccurred())
			msg := loaded.Messages()[0]
			Expect(msg.HasFlow()).To(BeFalse())
			Expect(msg.Tools).To(HaveLen(1))
		})

		It("should fail on a missing file", func() {
			_, err := chat.LoadHistory(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
