package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"cabao-quiz-service/internal/app"
	"cabao-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler speaks the game protocol over a websocket: one connection per
// combatant, typed JSON messages in both directions.
type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type loginPayload struct {
	Nickname string `json:"nickname"`
	Secret   string `json:"secret"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type questionPayload struct {
	Question domain.Question `json:"question"`
	Secret   string          `json:"secret"`
}

type removeQuestionPayload struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type answerOutbound struct {
	Correct  bool           `json:"correct"`
	Progress app.Progress   `json:"progress"`
	Player   *domain.Player `json:"player,omitempty"`
}

type hintOutbound struct {
	Kind     app.Lifeline `json:"kind"`
	Text     string       `json:"text"`
	Progress app.Progress `json:"progress"`
}

type feedbackOutbound struct {
	Text string `json:"text"`
}

// conn wires one websocket to the game service. Async work (hints, mission
// feedback) funnels through trySend so nothing writes after shutdown.
type conn struct {
	send chan outboundMessage[any]
	done chan struct{}
	wg   sync.WaitGroup
}

func (c *conn) trySend(msg outboundMessage[any]) {
	select {
	case c.send <- msg:
	case <-c.done:
	}
}

func errMsg(text string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: text}}
}

// ServeWS upgrades the request and runs the per-connection game loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	deviceKey := r.URL.Query().Get("device")

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	c := &conn{
		send: make(chan outboundMessage[any], 16),
		done: make(chan struct{}),
	}
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range c.send {
			if err := ws.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	ctx := r.Context()
	var player *domain.Player

	// Restore the device session so a reconnect does not require a new login.
	if deviceKey != "" {
		if restored, err := h.service.Resume(ctx, deviceKey); err == nil {
			player = &restored
			c.trySend(outboundMessage[any]{Type: "player", Payload: restored})
		}
	}

	for {
		var inbound inboundMessage
		if err := ws.ReadJSON(&inbound); err != nil {
			break
		}
		h.handleMessage(ctx, c, deviceKey, &player, inbound)
	}

	close(c.done)
	c.wg.Wait()
	close(c.send)
	<-writerDone
}

func (h *WSHandler) handleMessage(ctx context.Context, c *conn, deviceKey string, player **domain.Player, inbound inboundMessage) {
	switch inbound.Type {
	case "login":
		var payload loginPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.trySend(errMsg("invalid login payload"))
			return
		}
		logged, err := h.service.Login(ctx, payload.Nickname, payload.Secret, deviceKey)
		if err != nil {
			c.trySend(errMsg(err.Error()))
			return
		}
		*player = &logged
		c.trySend(outboundMessage[any]{Type: "player", Payload: logged})

	case "logout":
		nickname := ""
		if *player != nil {
			nickname = (*player).Nickname
		}
		if err := h.service.Logout(ctx, deviceKey, nickname); err != nil {
			c.trySend(errMsg(err.Error()))
			return
		}
		*player = nil
		c.trySend(outboundMessage[any]{Type: "loggedOut", Payload: struct{}{}})

	case "start":
		if *player == nil {
			c.trySend(errMsg("login first"))
			return
		}
		progress, err := h.service.StartMatch(ctx, (*player).Nickname)
		if err != nil {
			c.trySend(errMsg(err.Error()))
			return
		}
		c.trySend(outboundMessage[any]{Type: "match", Payload: progress})

	case "answer":
		if *player == nil {
			c.trySend(errMsg("login first"))
			return
		}
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.trySend(errMsg("invalid answer payload"))
			return
		}
		result, err := h.service.Answer(ctx, deviceKey, (*player).Nickname, payload.Option)
		if err != nil {
			c.trySend(errMsg(err.Error()))
			return
		}
		h.sendResult(ctx, c, player, result)

	case "skip":
		if *player == nil {
			c.trySend(errMsg("login first"))
			return
		}
		result, err := h.service.Skip(ctx, deviceKey, (*player).Nickname)
		if err != nil {
			c.trySend(errMsg(err.Error()))
			return
		}
		h.sendResult(ctx, c, player, result)

	case "hint", "opinion":
		if *player == nil {
			c.trySend(errMsg("login first"))
			return
		}
		kind := app.LifelineSergeant
		request := h.service.SergeantHint
		if inbound.Type == "opinion" {
			kind = app.LifelineCaboVelho
			request = h.service.CaboVelhoOpinion
		}
		nickname := (*player).Nickname
		// The backend call can take seconds; run it off the read loop so
		// answers stay responsive. The match busy flag rejects a second
		// request while this one is outstanding.
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			text, progress, err := request(ctx, nickname)
			if err != nil {
				c.trySend(errMsg(err.Error()))
				return
			}
			c.trySend(outboundMessage[any]{Type: "hint", Payload: hintOutbound{Kind: kind, Text: text, Progress: progress}})
		}()

	case "ranking":
		entries, err := h.service.Ranking(ctx)
		if err != nil {
			c.trySend(errMsg(err.Error()))
			return
		}
		c.trySend(outboundMessage[any]{Type: "ranking", Payload: entries})

	case "addQuestion":
		if *player == nil {
			c.trySend(errMsg("login first"))
			return
		}
		var payload questionPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.trySend(errMsg("invalid question payload"))
			return
		}
		if err := h.service.AddQuestion(ctx, (*player).Nickname, payload.Secret, payload.Question); err != nil {
			c.trySend(errMsg(err.Error()))
			return
		}
		c.trySend(outboundMessage[any]{Type: "questionAdded", Payload: payload.Question.ID})

	case "removeQuestion":
		if *player == nil {
			c.trySend(errMsg("login first"))
			return
		}
		var payload removeQuestionPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.trySend(errMsg("invalid question payload"))
			return
		}
		if err := h.service.RemoveQuestion(ctx, (*player).Nickname, payload.Secret, payload.ID); err != nil {
			c.trySend(errMsg(err.Error()))
			return
		}
		c.trySend(outboundMessage[any]{Type: "questionRemoved", Payload: payload.ID})

	default:
		c.trySend(errMsg("unsupported message type"))
	}
}

// sendResult reports an answer/skip transition. On a terminal outcome it also
// requests the mission feedback off the game path, so the gameOver message is
// never delayed by the language backend.
func (h *WSHandler) sendResult(ctx context.Context, c *conn, player **domain.Player, result app.AnswerResult) {
	if result.Player != nil {
		*player = result.Player
	}
	payload := answerOutbound{Correct: result.Correct, Progress: result.Progress, Player: result.Player}

	if result.Progress.State == app.MatchInProgress {
		c.trySend(outboundMessage[any]{Type: "answerResult", Payload: payload})
		return
	}

	c.trySend(outboundMessage[any]{Type: "gameOver", Payload: payload})
	score := result.Progress.Score
	won := result.Progress.State == app.MatchWon
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		text := h.service.MissionFeedback(ctx, score, won)
		c.trySend(outboundMessage[any]{Type: "feedback", Payload: feedbackOutbound{Text: text}})
	}()
}
