package main

import (
	"fmt"
	"strings"
)

// StatusLine collects short status fragments for the window title.
type StatusLine struct {
	parts []string
}

func (sl *StatusLine) Add(format string, args ...interface{}) {
	sl.parts = append(sl.parts, fmt.Sprintf(format, args...))
}

func (sl *StatusLine) Clear() {
	sl.parts = sl.parts[:0]
}

func (sl *StatusLine) String() string {
	return strings.Join(sl.parts, " | ")
}
