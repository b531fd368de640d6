// Package render draws laundry machines and room summaries for a terminal.
package render

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"laundry-status-monitor/internal/model"
	"laundry-status-monitor/internal/rank"
)

// AvailableGlyph marks a free machine.
const AvailableGlyph = "✅"

// BoardRule separates a room label from its murals.
const BoardRule = "---------------------------"

// Block is one machine drawn as five lines: a header followed by the body.
type Block []string

var (
	washerBlock = Block{" ✅  ", "╔═══╗", "╔═══╗", "║🫧 ║", "╚═══╝"}
	dryerBlock  = Block{" ✅  ", "╔═══╗", "╔═══╗", "║🔥 ║", "╚═══╝"}
)

// Template returns the block template for a machine type. Unknown types draw as dryers.
func Template(t model.MachineType) Block {
	if t == model.MachineTypeWasher {
		return slices.Clone(washerBlock)
	}
	return slices.Clone(dryerBlock)
}

// HeaderFor returns the header shown above a machine.
func HeaderFor(m model.Machine) string {
	if m.Available {
		return AvailableGlyph
	}
	return strconv.Itoa(m.TimeRemaining) + "m"
}

// DisplayWidth is the number of terminal columns s occupies. Wide and fullwidth
// runes such as emoji take two columns.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// Width is the display width of a block, measured on its first body line.
func (b Block) Width() int {
	if len(b) < 2 {
		return 0
	}
	return DisplayWidth(b[1])
}

// AddHeader returns a copy of block with header centered on its first line.
// A block that already shows the available glyph is returned unchanged when header is that glyph.
func AddHeader(block Block, header string) Block {
	out := slices.Clone(block)
	if len(out) == 0 {
		return out
	}
	if strings.Contains(header, AvailableGlyph) && strings.Contains(out[0], AvailableGlyph) {
		return out
	}

	total := max(block.Width()-DisplayWidth(header), 0)
	left := total / 2
	right := total - left
	out[0] = strings.Repeat(" ", left) + header + strings.Repeat(" ", right)
	return out
}

// Combine places blocks side by side, joining line i of every block.
func Combine(blocks ...Block) []string {
	if len(blocks) == 0 {
		return nil
	}
	lines := make([]string, len(blocks[0]))
	for _, block := range blocks {
		for i, part := range block {
			if i < len(lines) {
				lines[i] += part
			}
		}
	}
	return lines
}

// Mural draws washers and dryers as two separate rows of blocks, keeping machine order.
func Mural(machines []model.Machine) (washers, dryers []string) {
	var washerBlocks, dryerBlocks []Block
	for _, m := range machines {
		block := AddHeader(Template(m.Type), HeaderFor(m))
		if m.Type == model.MachineTypeWasher {
			washerBlocks = append(washerBlocks, block)
		} else {
			dryerBlocks = append(dryerBlocks, block)
		}
	}
	return Combine(washerBlocks...), Combine(dryerBlocks...)
}

// WriteMachines prints the washer mural followed by the dryer mural.
func WriteMachines(w io.Writer, machines []model.Machine) error {
	washers, dryers := Mural(machines)
	for _, mural := range [][]string{washers, dryers} {
		if len(mural) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, strings.Join(mural, "\n")); err != nil {
			return err
		}
	}
	return nil
}

// WriteBoard prints every room, sorted by label, with its machines.
func WriteBoard(w io.Writer, rooms []model.Room, machines map[string][]model.Machine) error {
	for _, room := range rank.ByLabel(rooms) {
		if _, err := fmt.Fprintf(w, "%s\n%s\n", room.Label, BoardRule); err != nil {
			return err
		}
		if err := WriteMachines(w, machines[room.RoomID]); err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, "\n\n\n"); err != nil {
			return err
		}
	}
	return nil
}
