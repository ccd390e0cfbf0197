package js

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/grafana/sobek"
)

var consoleLevels = map[string]slog.Level{
	"log":   slog.LevelInfo,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
	"debug": slog.LevelDebug,
}

// EnableConsole sets the global console, the messages are written to the VM logger.
func EnableConsole(rt *sobek.Runtime) {
	console := rt.NewObject()
	for name, level := range consoleLevels {
		_ = console.Set(name, func(call sobek.FunctionCall) sobek.Value {
			v := self(rt)
			msg := Format(rt, call.Argument(0), rest(call.Arguments)...)
			v.logger.Log(v.ctx, level, msg.String())
			return sobek.Undefined()
		})
	}
	_ = rt.Set("console", console)
}

func rest(args []sobek.Value) []sobek.Value {
	if len(args) < 2 {
		return nil
	}
	return args[1:]
}

// Format formats the message like console.log.
// The verbs %s %d %i %f %j %o %O consume the args, %% is a percent sign,
// the args left are appended separated by spaces.
func Format(rt *sobek.Runtime, msg sobek.Value, args ...sobek.Value) sobek.Value {
	if sobek.IsUndefined(msg) && len(args) == 0 {
		return sobek.Undefined()
	}

	var b strings.Builder
	if s, ok := msg.Export().(string); ok {
		args = formatVerbs(&b, s, args)
	} else {
		b.WriteString(inspect(msg))
	}
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(inspect(arg))
	}
	return rt.ToValue(b.String())
}

// formatVerbs writes s with the verbs replaced, returns the args not consumed.
func formatVerbs(b *strings.Builder, s string, args []sobek.Value) []sobek.Value {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		verb := s[i+1]
		if verb == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		if len(args) == 0 {
			b.WriteByte('%')
			continue
		}
		switch verb {
		case 's':
			b.WriteString(args[0].String())
		case 'd', 'f':
			b.WriteString(args[0].ToNumber().String())
		case 'i':
			b.WriteString(strconv.FormatInt(args[0].ToInteger(), 10))
		case 'j', 'o', 'O':
			b.WriteString(stringify(args[0]))
		default:
			b.WriteByte('%')
			continue
		}
		args = args[1:]
		i++
	}
	return args
}

func stringify(v sobek.Value) string {
	data, err := json.Marshal(v.Export())
	if err != nil {
		return v.String()
	}
	return string(data)
}

// inspect the objects are written as JSON, others as their string value.
func inspect(v sobek.Value) string {
	if obj, ok := v.(*sobek.Object); ok {
		if _, fn := sobek.AssertFunction(obj); !fn {
			if data, err := obj.MarshalJSON(); err == nil {
				return string(data)
			}
		}
	}
	return v.String()
}
