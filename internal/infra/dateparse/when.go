// Package dateparse finds dates and times in spoken English ("tomorrow at
// 3pm", "next friday at 10am").
package dateparse

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

type Parser struct {
	w *when.Parser
}

func NewParser() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

func (p *Parser) Parse(text string, base time.Time) (time.Time, bool, error) {
	r, err := p.w.Parse(text, base)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing date: %w", err)
	}
	if r == nil {
		return time.Time{}, false, nil
	}
	return r.Time, true, nil
}
