// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble rebuilds tagged lines from the spans of a document. Runs
// of same-size spans are merged across lines of a block, so a heading or a
// paragraph that wraps over several source lines becomes one tagged line.
package assemble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/resume2json/internal/fonts"
	"github.com/pdiddy/resume2json/internal/segment"
	"github.com/pdiddy/resume2json/pkg/types"
)

// ErrUnknownSize is returned when a span's size has no entry in the size
// table, which means the table was built from a different document.
var ErrUnknownSize = errors.New("span size missing from size table")

// runState is the accumulator threaded through the span walk.
type runState struct {
	current  string
	lastSize float64
	started  bool
	out      []string
}

// Assemble walks doc in reading order and returns its tagged lines. A run
// continues while consecutive non-blank spans share a size and is closed
// when the size changes or the block ends. Each source line end appends a
// sentinel to the open run.
func Assemble(doc types.Document, table fonts.SizeTable) ([]string, error) {
	var st runState
	for _, page := range doc.Pages {
		for _, block := range page.Blocks {
			if block.Type != types.BlockText {
				continue
			}
			st.current = ""
			for _, line := range block.Lines {
				for _, s := range line.Spans {
					if strings.TrimSpace(s.Text) == "" {
						continue
					}
					tag, ok := table.Tag(s.Size)
					if !ok {
						return nil, fmt.Errorf("%w: %g", ErrUnknownSize, s.Size)
					}
					st.push(tag, s)
				}
				st.current += segment.Sentinel
			}
			st.emit()
		}
	}
	return st.out, nil
}

func (st *runState) push(tag string, s types.Span) {
	switch {
	case !st.started:
		st.started = true
		st.current = tag + s.Text
	case s.Size != st.lastSize:
		st.emit()
		st.current = tag + s.Text
	case onlySentinels(st.current):
		st.current = tag + s.Text
	default:
		st.current += " " + s.Text
	}
	st.lastSize = s.Size
}

// emit closes the open run. Runs without text carry no tag and are dropped.
func (st *runState) emit() {
	if !onlySentinels(st.current) {
		st.out = append(st.out, st.current)
	}
	st.current = ""
}

// onlySentinels reports whether run is empty or made of sentinels alone.
func onlySentinels(run string) bool {
	return strings.Trim(run, segment.Sentinel) == ""
}
