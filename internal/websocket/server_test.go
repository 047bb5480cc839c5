package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"

	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/janiluuk/defora/adapters/mediator"
)

func TestStateDefaults(t *testing.T) {
	state := NewState()
	if state.Read("cfg") != 7.5 {
		t.Errorf("cfg = %v, want 7.5", state.Read("cfg"))
	}
	if state.Read("strength") != 0.6 {
		t.Errorf("strength = %v, want 0.6", state.Read("strength"))
	}
	if state.Read("never_written") != 0 {
		t.Errorf("unknown param = %v, want 0", state.Read("never_written"))
	}
}

func TestStateWriteRead(t *testing.T) {
	state := NewState()
	state.Write("seed", 42)
	if state.Read("seed") != 42 {
		t.Errorf("seed = %v, want 42", state.Read("seed"))
	}
}

func TestStateSnapshotIsACopy(t *testing.T) {
	state := NewState()
	snap := state.Snapshot()
	snap["cfg"] = 99.0
	if state.Read("cfg") != 7.5 {
		t.Error("mutating a snapshot leaked into the state table")
	}
	if state.Len() != 3 {
		t.Errorf("Len = %d, want 3 seeded params", state.Len())
	}
}

func newTestConn(t *testing.T) *gws.Conn {
	server := NewServer(NewState(), zap.NewNop())
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return server.Handle(c) })
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws://" + strings.TrimPrefix(srv.URL, "http://")
	conn, resp, err := gws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *gws.Conn, payload interface{}) []interface{} {
	data, err := msgpack.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(gws.BinaryMessage, data); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("recv failed: %v", err)
	}
	var reply interface{}
	if err := msgpack.Unmarshal(raw, &reply); err != nil {
		t.Fatalf("reply is not msgpack: %v", err)
	}
	list, ok := reply.([]interface{})
	if !ok {
		t.Fatalf("reply is not a list: %#v", reply)
	}
	return list
}

func TestServerWriteThenRead(t *testing.T) {
	conn := newTestConn(t)

	ack := exchange(t, conn, mediator.Envelope{Mode: mediator.ModeWrite, Param: "fov", Value: 70.0})
	if len(ack) != 2 || ack[0] != "fov" {
		t.Fatalf("write ack = %v, want [fov 70]", ack)
	}

	reply := exchange(t, conn, mediator.Envelope{Mode: mediator.ModeRead, Param: "fov", Value: 0})
	if len(reply) != 1 {
		t.Fatalf("read reply = %v, want single-element list", reply)
	}
	if value, ok := reply[0].(float64); !ok || value != 70.0 {
		t.Errorf("read back %#v, want 70.0", reply[0])
	}
}

func TestServerMalformedFrame(t *testing.T) {
	conn := newTestConn(t)

	reply := exchange(t, conn, "just a string")
	if len(reply) < 1 || reply[0] != "error" {
		t.Errorf("malformed frame reply = %v, want error tuple", reply)
	}
}

func TestServerMultipleRequestsPerConnection(t *testing.T) {
	conn := newTestConn(t)
	// The mock keeps a connection open across many exchanges even though
	// clients normally redial per call.
	for i := 0; i < 3; i++ {
		reply := exchange(t, conn, mediator.Envelope{Mode: mediator.ModeRead, Param: "cfg", Value: 0})
		if len(reply) != 1 {
			t.Fatalf("exchange %d failed: %v", i, reply)
		}
	}
}
