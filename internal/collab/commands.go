package collab

import (
	"context"
	"encoding/json"
	"log/slog"
)

// handleCommand runs a submitted command on the sender's session, answers the
// sender with an ack or nack and broadcasts the resulting state to the room.
func (h *Hub) handleCommand(ctx context.Context, sender *Client, msg *Message) {
	var submit CommandSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		sender.Send(newMessage(TypeCmdNack, CommandNackPayload{Reason: "invalid command payload"}))
		return
	}

	res, err := sender.session.Dispatch(ctx, submit.Command)
	if err != nil {
		slog.Debug("command rejected", "command", submit.Command.Name, "user", sender.UserID, "error", err)
		sender.Send(newMessage(TypeCmdNack, CommandNackPayload{ID: submit.ID, Reason: err.Error()}))
		return
	}

	ack := newMessage(TypeCmdAck, CommandAckPayload{
		ID:      submit.ID,
		Seq:     res.Seq,
		Changed: res.Changed,
		Data:    res.Data,
	})
	ack.Seq = res.Seq
	sender.Send(ack)

	state := StatePayload{UserID: sender.UserID, State: res.State}
	if res.Changed {
		snap, _ := sender.session.Snapshot()
		state.Document = &snap
	}
	out := newMessage(TypeState, state)
	out.Seq = res.Seq
	out.UserID = sender.UserID
	h.broadcastToRoom(sender.DesignID, out, "")
}
