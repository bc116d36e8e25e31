package rt

import "strings"

// Format interleaves parts with the rendered args; len(parts) is
// len(args)+1.
func Format(parts []string, args []Value, dicts []*Dict) string {
	var b strings.Builder
	for i, p := range parts {
		b.WriteString(p)
		if i < len(args) {
			b.WriteString(dicts[i].Show(args[i]))
		}
	}
	return b.String()
}
