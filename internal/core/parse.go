package core

// parse.go converts raw CSV text into records.
//
// Parsing runs in two independent passes that share one quote scanner:
//
//  1. SplitLines breaks text into logical lines. Line terminators inside a
//     quoted region are content, so one logical line may span several
//     physical lines.
//  2. SplitFields breaks one logical line into trimmed fields.
//
// Neither pass fails. Unbalanced quotes simply leave the scanner in the
// quoted state and whatever was accumulated is emitted at end of input.

import (
	"strings"
)

// scanState is the quote state shared by both passes.
type scanState int

const (
	unquoted scanState = iota
	quoted
)

func (s scanState) toggle() scanState {
	if s == quoted {
		return unquoted
	}
	return quoted
}

// SplitLines splits CSV text into logical lines.
//
// Quotes are kept in the output so SplitFields can interpret them later.
// A doubled quote inside a quoted region is kept as-is and does not change
// state. "\n", "\r\n" and "\r" end a line only outside quotes. Lines that
// are blank after trimming are dropped; kept lines are not trimmed.
func SplitLines(text string) []string {
	var (
		lines []string
		cur   strings.Builder
		state = unquoted
	)

	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			lines = append(lines, cur.String())
		}
		cur.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if state == quoted && i+1 < len(text) && text[i+1] == '"' {
				cur.WriteString(`""`)
				i++
				continue
			}
			state = state.toggle()
			cur.WriteByte(c)
		case c == '\n' && state == unquoted:
			flush()
		case c == '\r' && state == unquoted:
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	return lines
}

// SplitFields splits one logical line into fields.
//
// Commas inside quotes are content. A doubled quote inside quotes yields one
// literal quote; any other quote only toggles state. Each field is trimmed.
// A line without commas yields exactly one field.
func SplitFields(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		state  = unquoted
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if state == quoted && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
				continue
			}
			state = state.toggle()
		case c == ',' && state == unquoted:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))

	return fields
}

// ParseReport parses CSV text and reports skipped rows.
// The first logical line is the header. Rows whose field count differs from
// the header are skipped and listed in the result.
func ParseReport(text string) *ParseResult {
	lines := SplitLines(text)
	result := &ParseResult{Records: []Record{}}
	if len(lines) == 0 {
		return result
	}

	result.Header = SplitFields(lines[0])

	for i, line := range lines[1:] {
		values := SplitFields(line)
		if len(values) != len(result.Header) {
			result.Skipped = append(result.Skipped, SkippedRow{
				Line:     i + 2,
				Expected: len(result.Header),
				Got:      len(values),
			})
			continue
		}

		rec := make(Record, len(result.Header))
		for j, name := range result.Header {
			rec[name] = values[j]
		}
		result.Records = append(result.Records, rec)
	}

	return result
}

// Parse parses CSV text into records, silently dropping malformed rows.
func Parse(text string) []Record {
	return ParseReport(text).Records
}
