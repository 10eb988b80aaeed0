// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package sse fans server-sent events out to the open tabs of a user.
package sse

import (
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Hub tracks open event streams by user and session. One session (browser)
// may hold several streams (tabs); one user may hold several sessions.
type Hub struct {
	mu    sync.RWMutex
	users map[int64]map[string][]chan string
}

func NewHub() *Hub {
	return &Hub{users: make(map[int64]map[string][]chan string)}
}

// Register opens a stream for a session of a user.
func (h *Hub) Register(userID int64, sessionID string) chan string {
	ch := make(chan string, 8)

	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, ok := h.users[userID]
	if !ok {
		sessions = make(map[string][]chan string)
		h.users[userID] = sessions
	}
	sessions[sessionID] = append(sessions[sessionID], ch)
	return ch
}

// Unregister closes a stream opened by Register.
func (h *Hub) Unregister(userID int64, sessionID string, ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions := h.users[userID]
	remaining := lo.Without(sessions[sessionID], ch)
	switch {
	case len(remaining) > 0:
		sessions[sessionID] = remaining
	default:
		delete(sessions, sessionID)
		if len(sessions) == 0 {
			delete(h.users, userID)
		}
	}
	close(ch)
}

// SendToUser delivers msg to every stream of the user. Streams whose
// buffer is full miss the message.
func (h *Hub) SendToUser(userID int64, msg string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, streams := range h.users[userID] {
		for _, ch := range streams {
			select {
			case ch <- msg:
			default:
			}
		}
	}
}

// EntriesChanged notifies the user's open views that their data changed.
func (h *Hub) EntriesChanged(userID int64) {
	h.SendToUser(userID, FormatEvent(EventEntriesChanged, time.Now().UTC().Format(time.RFC3339)))
	slog.Debug("sse_entries_changed", "user_id", userID)
}

// ClientCount returns the number of open streams.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return lo.SumBy(lo.Values(h.users), func(sessions map[string][]chan string) int {
		return lo.SumBy(lo.Values(sessions), func(streams []chan string) int { return len(streams) })
	})
}

// SessionCount returns the number of sessions with at least one stream.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return lo.SumBy(lo.Values(h.users), func(sessions map[string][]chan string) int { return len(sessions) })
}

// UserCount returns the number of users with at least one stream.
func (h *Hub) UserCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.users)
}
