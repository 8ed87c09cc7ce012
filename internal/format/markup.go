package format

import "strings"

// Markup tokens take the form $(name) or $(name1, name2) and compile
// down to raw IRC control sequences. They keep the renderer readable
// and make stripped-style output testable.

const (
	ctrlBold      = "\x02"
	ctrlItalic    = "\x1d"
	ctrlUnderline = "\x1f"
	ctrlReverse   = "\x16"
	ctrlClear     = "\x0f"
	ctrlColor     = "\x03"
)

var attributes = map[string]string{
	"bold":      ctrlBold,
	"b":         ctrlBold,
	"italic":    ctrlItalic,
	"underline": ctrlUnderline,
	"reverse":   ctrlReverse,
	"clear":     ctrlClear,
	"reset":     ctrlClear,
}

// mIRC color palette, by conventional name.
var colors = map[string]string{
	"white":  "00",
	"black":  "01",
	"dblue":  "02",
	"dgreen": "03",
	"red":    "04",
	"brown":  "05",
	"purple": "06",
	"orange": "07",
	"yellow": "08",
	"green":  "09",
	"teal":   "10",
	"cyan":   "11",
	"blue":   "12",
	"pink":   "13",
	"grey":   "14",
	"silver": "15",
}

// Render replaces every known $(...) token with its control sequence.
// Unknown names are dropped rather than leaked to the user.
func Render(s string) string {
	return replaceTokens(s, func(name string) string {
		if code, ok := attributes[name]; ok {
			return code
		}
		if num, ok := colors[name]; ok {
			return ctrlColor + num
		}
		return ""
	})
}

// Strip removes every $(...) token without inserting control sequences.
func Strip(s string) string {
	return replaceTokens(s, func(string) string { return "" })
}

func replaceTokens(s string, repl func(name string) string) string {
	var sb strings.Builder
	for {
		start := strings.Index(s, "$(")
		if start == -1 {
			sb.WriteString(s)
			return sb.String()
		}
		end := strings.Index(s[start:], ")")
		if end == -1 {
			sb.WriteString(s)
			return sb.String()
		}
		end += start

		sb.WriteString(s[:start])
		for _, name := range strings.Split(s[start+2:end], ",") {
			sb.WriteString(repl(strings.TrimSpace(name)))
		}
		s = s[end+1:]
	}
}
