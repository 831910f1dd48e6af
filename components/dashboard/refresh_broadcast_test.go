package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe("")
	defer cancel()
	event := DashboardEvent{Kind: EventSourceLoaded, Source: SourceLayouts}
	if err := hook.DashboardUpdated(context.Background(), event); err != nil {
		t.Fatalf("DashboardUpdated returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e.Source != event.Source {
			t.Fatalf("expected source %s, got %s", event.Source, e.Source)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookFiltersBySession(t *testing.T) {
	hook := NewBroadcastHook()
	mine, cancelMine := hook.Subscribe("a")
	defer cancelMine()
	other, cancelOther := hook.Subscribe("b")
	defer cancelOther()

	_ = hook.DashboardUpdated(context.Background(), DashboardEvent{Kind: EventSectionShown, SessionID: "a", Section: SectionLayouts})
	_ = hook.DashboardUpdated(context.Background(), DashboardEvent{Kind: EventSourceFailed, Source: SourceDepartments})

	if got := len(mine); got != 2 {
		t.Fatalf("expected session a to receive 2 events, got %d", got)
	}
	if got := len(other); got != 1 {
		t.Fatalf("expected session b to receive only the source event, got %d", got)
	}
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe("")
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	if hook.Subscribers() != 0 {
		t.Fatalf("expected no subscribers")
	}
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=s1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hook.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	_ = hook.DashboardUpdated(context.Background(), DashboardEvent{Kind: EventSectionRendered, SessionID: "s1", Section: SectionOverview})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got DashboardEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Section != SectionOverview || got.Kind != EventSectionRendered {
		t.Fatalf("unexpected event %+v", got)
	}
}
