package bot

import (
	"testing"

	tele "gopkg.in/telebot.v3"
)

type recordingRegistrar struct {
	endpoints []interface{}
}

func (r *recordingRegistrar) Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc) {
	r.endpoints = append(r.endpoints, endpoint)
}

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	a, err := StartTelegramBot("", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != nil {
		t.Fatal("expected no assistant without a token")
	}
}

func TestRegisterHandlers(t *testing.T) {
	r := &recordingRegistrar{}
	registerHandlers(r, NewAssistant(nil, nil, nil))

	want := map[string]bool{"/start": false, "/ping": false, tele.OnText: false}
	sawButton := false
	for _, ep := range r.endpoints {
		switch v := ep.(type) {
		case string:
			want[v] = true
		case *tele.Btn:
			sawButton = v.Unique == optionUnique
		}
	}
	for ep, seen := range want {
		if !seen {
			t.Fatalf("expected handler for %s", ep)
		}
	}
	if !sawButton {
		t.Fatal("expected option button handler")
	}
}
