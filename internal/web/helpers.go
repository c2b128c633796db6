package web

import (
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func esc(value string) string {
	return templ.EscapeString(value)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02 15:04")
}

func joinRules(rules []string) string {
	if len(rules) == 0 {
		return "-"
	}
	return strings.Join(rules, ", ")
}

const baseStyles = `
      body { font-family: system-ui, sans-serif; margin: 0; background: #f6f4ef; color: #1a1a1a; }
      .shell { max-width: 960px; margin: 0 auto; padding: 2rem 1rem; }
      .panel { background: #fff; border-radius: 12px; padding: 1.25rem; margin-bottom: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
      .tag { text-transform: uppercase; letter-spacing: .1em; font-size: .75rem; color: #845ef7; }
      .rooms { list-style: none; padding: 0; margin: 0; }
      .rooms li { display: flex; justify-content: space-between; padding: .5rem 0; border-bottom: 1px solid #eee; }
      .numbers { display: grid; grid-template-columns: repeat(15, 1fr); gap: 4px; }
      .numbers span { text-align: center; padding: .35rem 0; border-radius: 6px; background: #eee; font-variant-numeric: tabular-nums; }
      .numbers span.drawn { background: #51cf66; color: #fff; font-weight: 600; }
      .last { font-size: 3rem; font-weight: 700; }
      .winner { background: #ffd43b; }
      .muted { color: #666; }
      form { display: flex; flex-wrap: wrap; gap: .5rem; }
      input, select, button { font: inherit; padding: .4rem .6rem; }
`
