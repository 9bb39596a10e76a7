package machine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallReturnRestoresState(t *testing.T) {
	m := newTestMachine(t)

	pcBefore := m.pc
	spBefore := m.sp
	hpBefore := m.hp
	levelBefore := m.level
	displayBefore := m.display

	m.pc = codeStart + 100 // pretend we're mid-procedure when we call
	callSitePC := m.pc

	require.Nil(t, m.doCall(1, codeStart+200))
	require.Equal(t, 1, m.level)
	require.Equal(t, uint16(codeStart+200), m.pc)
	require.NotEqual(t, displayBefore[1], m.display[1])

	require.Nil(t, m.doReturn())
	require.Equal(t, callSitePC, m.pc)
	require.Equal(t, levelBefore, m.level)
	require.Equal(t, displayBefore, m.display)
	require.Equal(t, hpBefore, m.hp)
	require.Equal(t, spBefore, m.sp)

	_ = pcBefore
}

func TestNestedCallReturn(t *testing.T) {
	m := newTestMachine(t)

	hp0 := m.hp
	require.Nil(t, m.doCall(1, codeStart+10))
	hp1 := m.hp
	require.Nil(t, m.doCall(2, codeStart+20))
	require.Equal(t, 2, m.level)

	require.Nil(t, m.doReturn())
	require.Equal(t, 1, m.level)
	require.Equal(t, hp1, m.hp)

	require.Nil(t, m.doReturn())
	require.Equal(t, 0, m.level)
	require.Equal(t, hp0, m.hp)
}
