package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-status-monitor/internal/model"
)

func TestAddHeader_Centering(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "wide glyph", header: "✅", expected: " ✅  "},
		{name: "one character", header: "5", expected: "  5  "},
		{name: "two characters", header: "7m", expected: " 7m  "},
		{name: "three characters", header: "12m", expected: " 12m "},
		{name: "four characters", header: "120m", expected: "120m "},
		{name: "exact width", header: "1000m", expected: "1000m"},
		{name: "wider than block", header: "12345m", expected: "12345m"},
	}

	blank := Block{"     ", "╔═══╗", "╔═══╗", "║🫧 ║", "╚═══╝"}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := AddHeader(blank, tc.header)
			assert.Equal(t, tc.expected, got[0])
			assert.Equal(t, blank[1:], got[1:], "body lines are untouched")
		})
	}
}

func TestAddHeader_PreservesWidth(t *testing.T) {
	for _, header := range []string{"✅", "1m", "12m", "99m"} {
		got := AddHeader(Template(model.MachineTypeDryer), header)
		assert.Equal(t, 5, DisplayWidth(got[0]), "header %q", header)
	}
}

func TestAddHeader_AvailableIsNoop(t *testing.T) {
	tmpl := Template(model.MachineTypeWasher)
	got := AddHeader(tmpl, AvailableGlyph)
	assert.Equal(t, tmpl, got)

	got[0] = "changed"
	assert.NotEqual(t, "changed", Template(model.MachineTypeWasher)[0], "template must not be shared")
}

func TestAddHeader_DoesNotModifyInput(t *testing.T) {
	tmpl := Template(model.MachineTypeWasher)
	_ = AddHeader(tmpl, "30m")
	assert.Equal(t, Template(model.MachineTypeWasher), tmpl)
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 2, DisplayWidth("✅"))
	assert.Equal(t, 5, DisplayWidth(" ✅  "))
	assert.Equal(t, 5, DisplayWidth("╔═══╗"))
	assert.Equal(t, 5, DisplayWidth("║🫧 ║"))
	assert.Equal(t, 5, DisplayWidth("║🔥 ║"))
	assert.Equal(t, 3, DisplayWidth("12m"))
}

func TestTemplates_LinesShareWidth(t *testing.T) {
	for _, typ := range []model.MachineType{model.MachineTypeWasher, model.MachineTypeDryer} {
		for i, line := range Template(typ) {
			assert.Equal(t, 5, DisplayWidth(line), "%s line %d %q", typ, i, line)
		}
	}
}

func TestMural_ColumnsAligned(t *testing.T) {
	washers, dryers := Mural([]model.Machine{
		{Type: model.MachineTypeWasher, Available: true},
		{Type: model.MachineTypeWasher, TimeRemaining: 12},
		{Type: model.MachineTypeWasher, Available: true},
		{Type: model.MachineTypeDryer, TimeRemaining: 5},
		{Type: model.MachineTypeDryer, Available: true},
	})

	for name, mural := range map[string][]string{"washers": washers, "dryers": dryers} {
		require.NotEmpty(t, mural, name)
		for i, line := range mural {
			assert.Equal(t, DisplayWidth(mural[1]), DisplayWidth(line), "%s line %d %q", name, i, line)
		}
	}
	assert.Equal(t, 15, DisplayWidth(washers[0]))
}

func TestHeaderFor(t *testing.T) {
	assert.Equal(t, "✅", HeaderFor(model.Machine{Available: true, TimeRemaining: 12}))
	assert.Equal(t, "12m", HeaderFor(model.Machine{TimeRemaining: 12}))
	assert.Equal(t, "0m", HeaderFor(model.Machine{}))
}

func TestCombine(t *testing.T) {
	assert.Nil(t, Combine())

	lines := Combine(Block{"a", "b"}, Block{"c", "d"}, Block{"e", "f"})
	assert.Equal(t, []string{"ace", "bdf"}, lines)
}

func TestMural(t *testing.T) {
	machines := []model.Machine{
		{Type: model.MachineTypeWasher, Available: true},
		{Type: model.MachineTypeDryer, TimeRemaining: 7},
		{Type: model.MachineTypeWasher, TimeRemaining: 12},
	}

	washers, dryers := Mural(machines)

	assert.Equal(t, []string{
		" ✅   12m ",
		"╔═══╗╔═══╗",
		"╔═══╗╔═══╗",
		"║🫧 ║║🫧 ║",
		"╚═══╝╚═══╝",
	}, washers)
	assert.Equal(t, []string{
		" 7m  ",
		"╔═══╗",
		"╔═══╗",
		"║🔥 ║",
		"╚═══╝",
	}, dryers)
}

func TestWriteMachines_SkipsEmptyMural(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMachines(&buf, []model.Machine{{Type: model.MachineTypeDryer, Available: true}}))

	assert.Equal(t, " ✅  \n╔═══╗\n╔═══╗\n║🔥 ║\n╚═══╝\n", buf.String())
}

func TestWriteBoard_SortedByLabel(t *testing.T) {
	rooms := []model.Room{{Label: "Prince Frederick FL7", RoomID: "b"}, {Label: "Prince Frederick FL1", RoomID: "a"}}
	machines := map[string][]model.Machine{
		"a": {{Type: model.MachineTypeWasher, Available: true}},
		"b": {{Type: model.MachineTypeDryer, TimeRemaining: 40}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBoard(&buf, rooms, machines))
	out := buf.String()

	first := strings.Index(out, "Prince Frederick FL1")
	second := strings.Index(out, "Prince Frederick FL7")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second)
	assert.Contains(t, out, "Prince Frederick FL1\n"+BoardRule+"\n")
	assert.Contains(t, out, " 40m ")
}
