package channel

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/weavercmd/weaver/internal/commands"
	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/vars"
)

func TestWebsocketRoundTrip(t *testing.T) {
	server := &Server{
		NewConversation: func() *Conversation {
			eng := engine.New()
			err := commands.Register(eng, commands.Options{
				Vars:          vars.NewRegistry(),
				MaxIterations: 100,
			})
			if err != nil {
				t.Error(err)
			}
			return &Conversation{Engine: eng}
		},
	}
	ts := httptest.NewServer(server)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.CloseNow()

	if err := conn.Write(ctx, websocket.MessageText, []byte("help()")); err != nil {
		t.Fatal(err)
	}
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Weaver Cmd version") {
		t.Errorf("reply = %q", data)
	}
}
