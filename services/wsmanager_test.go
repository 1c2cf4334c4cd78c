package services

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestWSConnManagerConnected(t *testing.T) {
	m := NewWSConnManager()
	require.False(t, m.Connected(1))

	first := &websocket.Conn{}
	second := &websocket.Conn{}
	m.Add(1, first)
	m.Add(1, second)
	require.True(t, m.Connected(1))
	require.False(t, m.Connected(2))

	// Пользователь считается подключенным, пока жив хотя бы один клиент
	m.Remove(1, first)
	require.True(t, m.Connected(1))
	m.Remove(1, second)
	require.False(t, m.Connected(1))
}
