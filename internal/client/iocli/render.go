package iocli

import (
	"strings"
	"unicode/utf8"
)

// BorderWidth ширина текста внутри рамки по умолчанию
const BorderWidth = 88

// Bordered рисует рамку вокруг текста, перенося строки длиннее width
func Bordered(text string, width int) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		lines = append(lines, wrap(line, width)...)
	}

	inner := 0
	for _, line := range lines {
		inner = max(inner, utf8.RuneCountInString(line))
	}

	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", inner+2) + "┐\n")
	for _, line := range lines {
		b.WriteString("│ " + line + strings.Repeat(" ", inner-utf8.RuneCountInString(line)) + " │\n")
	}
	b.WriteString("└" + strings.Repeat("─", inner+2) + "┘")
	return b.String()
}

// Besides ставит два блока текста рядом
func Besides(a, b string) string {
	left := strings.Split(a, "\n")
	right := strings.Split(b, "\n")
	leftWidth := utf8.RuneCountInString(left[0])
	rightWidth := utf8.RuneCountInString(right[0])

	rows := max(len(left), len(right))
	out := make([]string, rows)
	for i := range rows {
		l := strings.Repeat(" ", leftWidth)
		if i < len(left) {
			l = left[i]
		}
		r := strings.Repeat(" ", rightWidth)
		if i < len(right) {
			r = right[i]
		}
		out[i] = l + r
	}
	return strings.Join(out, "\n")
}

// wrap переносит строку по словам; слово длиннее width режется
func wrap(line string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var out []string
	var current []rune
	for _, word := range strings.Fields(line) {
		runes := []rune(word)
		for len(runes) > width {
			if len(current) > 0 {
				out = append(out, string(current))
				current = nil
			}
			out = append(out, string(runes[:width]))
			runes = runes[width:]
		}
		switch {
		case len(current) == 0:
			current = runes
		case len(current)+1+len(runes) <= width:
			current = append(append(current, ' '), runes...)
		default:
			out = append(out, string(current))
			current = runes
		}
	}
	if len(current) > 0 {
		out = append(out, string(current))
	}
	return out
}
