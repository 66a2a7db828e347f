package logger

import (
	"fmt"
	"strings"
)

// ComponentLogger tags every line with a component name and renders
// trailing key/value pairs as key=value.
type ComponentLogger struct {
	component string
	fields    []interface{}
}

// WithComponent returns a logger bound to the default logger
func WithComponent(name string) *ComponentLogger {
	return &ComponentLogger{component: name}
}

// With returns a copy carrying extra key/value pairs on every line
func (c *ComponentLogger) With(keyvals ...interface{}) *ComponentLogger {
	fields := make([]interface{}, 0, len(c.fields)+len(keyvals))
	fields = append(fields, c.fields...)
	fields = append(fields, keyvals...)
	return &ComponentLogger{component: c.component, fields: fields}
}

func (c *ComponentLogger) Debug(msg string, keyvals ...interface{}) {
	Debug("%s", c.format(msg, keyvals))
}

func (c *ComponentLogger) Info(msg string, keyvals ...interface{}) {
	Info("%s", c.format(msg, keyvals))
}

func (c *ComponentLogger) Warn(msg string, keyvals ...interface{}) {
	Warn("%s", c.format(msg, keyvals))
}

func (c *ComponentLogger) Error(msg string, keyvals ...interface{}) {
	Error("%s", c.format(msg, keyvals))
}

func (c *ComponentLogger) format(msg string, keyvals []interface{}) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(c.component)
	b.WriteString("] ")
	b.WriteString(msg)

	all := append(append([]interface{}{}, c.fields...), keyvals...)
	for i := 0; i < len(all); i += 2 {
		key := fmt.Sprint(all[i])
		if i+1 >= len(all) {
			fmt.Fprintf(&b, " %s=<missing>", key)
			break
		}
		val := fmt.Sprint(all[i+1])
		if strings.ContainsAny(val, " \t\n\"") {
			val = fmt.Sprintf("%q", val)
		}
		fmt.Fprintf(&b, " %s=%s", key, val)
	}
	return b.String()
}
