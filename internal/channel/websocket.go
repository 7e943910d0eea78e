package channel

import (
	"context"
	"log"
	"net/http"

	"github.com/coder/websocket"
)

// Server exposes the engine over a websocket: one text message in, one reply
// out. Each connection gets its own conversation (and engine), matching the
// one-conversation-per-engine model.
type Server struct {
	NewConversation func() *Conversation
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("Warning: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	conv := s.NewConversation()
	ctx := r.Context()
	for {
		kind, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if kind != websocket.MessageText {
			continue
		}
		reply, done := conv.Handle(string(data))
		if reply != "" {
			if err := conn.Write(ctx, websocket.MessageText, []byte(reply)); err != nil {
				return
			}
		}
		if done {
			_ = conn.Close(websocket.StatusNormalClosure, "bye")
			return
		}
	}
}

// ListenAndServe runs the websocket endpoint until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
