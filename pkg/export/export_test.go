package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:    "Horarios Asignados",
		Preamble: [][]string{{"Cost", "12"}},
		Headers:  []string{"Teacher", "Subject", "Time Slot", "Room"},
		Rows: [][]string{
			{"P1", "A", "1", "Salón 1"},
			{"P2", "B"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "Cost,12\nTeacher,Subject,Time Slot,Room\nP1,A,1,Salón 1\nP2,B,,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, ".pdf", NewPDFExporter().Extension())
}
