// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package sse

import (
	"strings"
)

// EventEntriesChanged tells open month views of a user to reload.
const EventEntriesChanged = "entries-changed"

// Heartbeat is an SSE comment that keeps idle connections open through proxies.
const Heartbeat = ": heartbeat\n\n"

// FormatEvent renders one event in the text/event-stream format. Every
// line of data gets its own "data:" field.
func FormatEvent(name, data string) string {
	var sb strings.Builder
	if name != "" {
		sb.WriteString("event: " + name + "\n")
	}
	for line := range strings.SplitSeq(data, "\n") {
		sb.WriteString("data: " + line + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}
