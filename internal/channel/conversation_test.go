package channel

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/weavercmd/weaver/internal/commands"
	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/history"
	"github.com/weavercmd/weaver/internal/vars"
)

func newConversation(t *testing.T) (*Conversation, history.Store) {
	t.Helper()
	eng := engine.New()
	store := history.NewMemoryStore(100)
	err := commands.Register(eng, commands.Options{
		Vars:          vars.NewRegistry(),
		History:       store,
		MaxIterations: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &Conversation{Engine: eng, History: store}, store
}

func TestConversationDispatch(t *testing.T) {
	conv, _ := newConversation(t)

	reply, done := conv.Handle("help()")
	if done {
		t.Fatal("help must not end the conversation")
	}
	if !strings.Contains(reply, "Weaver Cmd version") {
		t.Errorf("reply = %q", reply)
	}
}

func TestConversationExit(t *testing.T) {
	conv, _ := newConversation(t)
	for _, line := range []string{"exit", "exit()"} {
		c := *conv
		if _, done := c.Handle(line); !done {
			t.Errorf("Handle(%q): expected done", line)
		}
	}
}

func TestConversationErrorsArePrefixed(t *testing.T) {
	conv, _ := newConversation(t)
	reply, _ := conv.Handle("nosuch()")
	if !strings.HasPrefix(reply, "Error: Unknown command") {
		t.Errorf("reply = %q", reply)
	}
}

func TestConversationFeedbackFlow(t *testing.T) {
	conv, _ := newConversation(t)
	path := filepath.Join(t.TempDir(), "myfile.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	reply, _ := conv.Handle("delete(" + path + ")")
	if !strings.Contains(reply, "Delete '"+path+"'") || !strings.Contains(reply, "[yes/no]") {
		t.Errorf("prompt reply = %q", reply)
	}
	if conv.PendingRequestID() == "" {
		t.Fatal("no pending request")
	}

	// The next plain line answers the pending request.
	reply, _ = conv.Handle("maybe")
	if !strings.Contains(reply, "Unrecognized") {
		t.Errorf("re-prompt reply = %q", reply)
	}
	if conv.PendingRequestID() == "" {
		t.Fatal("re-prompt should leave a pending request")
	}

	reply, _ = conv.Handle("yes")
	if !strings.Contains(reply, "deleted") {
		t.Errorf("final reply = %q", reply)
	}
	if conv.PendingRequestID() != "" {
		t.Error("conversation should be idle again")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still present")
	}
}

func TestConversationRecordsHistory(t *testing.T) {
	conv, store := newConversation(t)
	conv.Handle("list()")

	recs, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Input != "list()" {
		t.Errorf("records = %+v", recs)
	}
}

func TestConsoleRunUntilEOF(t *testing.T) {
	conv, _ := newConversation(t)
	var out strings.Builder
	console := &Console{
		Conv: conv,
		In:   strings.NewReader("list()\n"),
		Out:  sinkFunc(func(msg string) { out.WriteString(msg) }),
	}
	if err := console.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "delete(") {
		t.Errorf("output = %q", out.String())
	}
}

type sinkFunc func(string)

func (f sinkFunc) Write(msg string) { f(msg) }
