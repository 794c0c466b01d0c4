package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoypad_UpperBitsAlwaysSet(t *testing.T) {
	j := New()
	j.Write(0x00) // select both groups
	assert.Equal(t, byte(0xC0), j.Read()&0xC0)
}

func TestJoypad_NoSelectionReadsAllOnes(t *testing.T) {
	j := New()
	j.Write(0x30) // both selection bits high -> neither group selected
	j.SetState(Right | A)
	assert.Equal(t, byte(0xFF), j.Read())
}

func TestJoypad_DPadSelection(t *testing.T) {
	j := New()
	j.SetState(Right | Down)
	j.Write(0x20) // P14 low selects D-pad, P15 high
	res := j.Read()
	assert.Equal(t, byte(0), res&0x01) // Right pressed -> bit clear
	assert.Equal(t, byte(0x02), res&0x02) // Left not pressed -> bit set
	assert.Equal(t, byte(0), res&0x08) // Down pressed -> bit clear
}

func TestJoypad_ButtonSelection(t *testing.T) {
	j := New()
	j.SetState(A | Start)
	j.Write(0x10) // P15 low selects buttons, P14 high
	res := j.Read()
	assert.Equal(t, byte(0), res&0x01) // A pressed
	assert.Equal(t, byte(0), res&0x08) // Start pressed
	assert.Equal(t, byte(0x02), res&0x02) // B not pressed
}

func TestJoypad_SelectionRequestsInterruptOnFallingEdge(t *testing.T) {
	j := New()
	j.Write(0x20) // select D-pad
	assert.False(t, j.PendingInterrupt())

	j.SetState(Right) // 1 -> 0 transition on bit 0
	assert.True(t, j.PendingInterrupt())

	j.ClearInterrupt()
	assert.False(t, j.PendingInterrupt())

	j.SetState(Right) // already pressed, no new edge
	assert.False(t, j.PendingInterrupt())
}

func TestJoypad_BothGroupsSelectedORsTogether(t *testing.T) {
	j := New()
	j.SetState(Right) // only D-pad bit 0
	j.Write(0x00)      // select both groups
	res := j.Read()
	assert.Equal(t, byte(0), res&0x01)
}
