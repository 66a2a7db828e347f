package testutil

// WeatherScript is a captured weather turn: a streamed delta, the
// assistant's text and tool use, the tool result and the final answer.
const WeatherScript = `{"init_event_loop": true}
{"data": "Let me"}
{"current_tool_use": {"name": "get_weather", "input": "{\"ci"}}
{"message": {"role": "assistant", "content": [{"text": "Let me check the weather."}, {"toolUse": {"name": "get_weather", "input": {"city": "NYC"}, "toolUseId": "t1"}}]}}
{"message": {"role": "user", "content": [{"toolResult": {"toolUseId": "t1", "status": "success", "content": [{"text": "72F"}]}}]}}
{"message": {"role": "assistant", "content": [{"text": "It is 72F in NYC."}]}}
`

// CalculatorCompletions drive a one-shot agent through one calculator
// call and a final answer
var CalculatorCompletions = []string{
	"Thought: I should use the calculator.\nAction: calculator\nAction Input: 2*3",
	"Thought: I now know the final answer\nFinal Answer: The answer is 6.",
}
