package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// PrintState renders the cells within radius of the head as a table.
func PrintState(w io.Writer, c *Core, radius int) {
	tape := c.Tape()
	cells := tape.Cells()
	head := tape.Head()

	lo := max(head-radius, 0)
	hi := min(head+radius+1, len(cells))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s  IP=%d  executed=%d  cells=%d",
		c.Name(), c.IP(), c.Executed(), len(cells)))

	header := table.Row{""}
	values := table.Row{"value"}
	chars := table.Row{"char"}
	for i := lo; i < hi; i++ {
		label := fmt.Sprintf("%d", i)
		if i == head {
			label = "[" + label + "]"
		}
		header = append(header, label)
		values = append(values, cells[i])
		chars = append(chars, printable(cells[i]))
	}

	t.AppendHeader(header)
	t.AppendRow(values)
	t.AppendRow(chars)
	t.Render()
}

func printable(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return string(rune(b))
	}
	return "."
}

func LogState(c *Core) {
	slog.Debug("StateCheckpoint",
		"Name", c.Name(),
		"IP", c.IP(),
		"Executed", c.Executed(),
		"Head", c.Tape().Head(),
		"TapeLen", c.Tape().Len(),
		"Cell", c.Tape().Get(),
	)
}
