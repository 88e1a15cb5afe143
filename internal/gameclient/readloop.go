package gameclient

import (
	"encoding/json"

	"partybot/internal/domain"

	"github.com/gorilla/websocket"
)

// readLoop is the only reader of the connection. It translates wire frames
// into inbound events and resolves pending acks. On exit it tears the
// session down, emits the terminal Closed event and closes the event
// channel, so consumers observe exactly one Closed and then end-of-stream.
func (s *session) readLoop() {
	reason := "connection closed"

	defer func() {
		s.Close()
		s.failPending()
		s.events <- domain.InboundEvent{Type: domain.EventClosed, Reason: reason}
		close(s.events)
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("read failed", "err", err)
				reason = err.Error()
			}
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			s.logger.Warn("malformed frame, skipping", "err", err)
			continue
		}

		switch f.Type {
		case frameAck, frameReject:
			s.mu.Lock()
			ch, ok := s.pending[f.Seq]
			if ok {
				delete(s.pending, f.Seq)
			}
			s.mu.Unlock()
			if ok {
				ch <- f
			} else {
				s.logger.Debug("ack for unknown seq", "seq", f.Seq)
			}

		case frameChat:
			s.events <- domain.InboundEvent{
				Type: domain.EventChat,
				Chat: domain.ChatMessage{Sender: f.Sender, Text: f.Text},
			}

		case frameParty:
			s.events <- domain.InboundEvent{
				Type:   domain.EventRoster,
				Roster: rosterMembers(f.Members),
			}

		default:
			s.events <- domain.InboundEvent{Type: domain.EventOther}
		}
	}
}
