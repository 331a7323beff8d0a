package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) handleGameStart(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameStart")

	snapshot, err := that.session.Start(ctx)
	if err != nil {
		log.Error("failed to start session", "error", err)
		return conn.sendError(msg.Action, err.Error())
	}

	if err = conn.send(msg.Action, Payload{Session: &snapshot}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("session started", "session_id", snapshot.SessionID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameTurn")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		log.Error("failed to unmarshal payload", "error", err)
		return conn.sendError(msg.Action, "malformed payload")
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return conn.sendError(msg.Action, "row and col are required")
	}

	snapshot, err := that.session.SubmitHumanMove(ctx, *payloadReq.Row, *payloadReq.Col)
	if err != nil {
		log.Info("move rejected", "row", *payloadReq.Row, "col", *payloadReq.Col, "error", err)
		return conn.sendError(msg.Action, err.Error())
	}

	if err = conn.send(msg.Action, Payload{Session: &snapshot}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleGameState(_ context.Context, msg *Message, conn *connection) error {
	snapshot := that.session.Snapshot()

	return conn.send(msg.Action, Payload{Session: &snapshot})
}
