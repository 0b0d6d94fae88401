package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/canvas/internal/presentation/tui"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementTable(t *testing.T) {
	state := domain.FromElements(
		&domain.Element{ID: "a", Kind: domain.KindClass, Name: "A|B", Bounds: domain.Bounds{X: 1, Y: 2, Width: 200, Height: 100}, Selected: true},
		&domain.Element{ID: "b", Kind: domain.KindClass, Name: "B", Interactive: true, Hovered: true},
		domain.NewRelationship("r", domain.KindClassAssociation, "",
			domain.Port{Element: "a", Direction: domain.Right},
			domain.Port{Element: "b", Direction: domain.Left}),
	)

	out := tui.ElementTable("orders", state)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 7)

	assert.Equal(t, "# orders", lines[0])
	assert.Equal(t, `| a | Class | A\|B |  | 1,2 200x100 | selected |`, lines[4])
	assert.Equal(t, "| b | Class | B |  | 0,0 0x0 | hovered interactive |", lines[5])
	assert.Equal(t, "| r | ClassAssociation |  |  | a.Right → b.Left |  |", lines[6])
	assert.Contains(t, out, "**Selection:** a")
}

func TestElementTable_Empty(t *testing.T) {
	assert.Contains(t, tui.ElementTable("x", domain.NewState()), "_empty diagram_")
	assert.Contains(t, tui.ElementTable("x", nil), "_empty diagram_")
}

func TestRenderers(t *testing.T) {
	md := tui.ElementTable("plain", domain.NewState())

	out, err := tui.Plain(md)
	require.NoError(t, err)
	assert.Equal(t, md, out)

	styled, err := tui.NewRenderer()(md)
	require.NoError(t, err)
	assert.Contains(t, styled, "plain")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "___")
}
