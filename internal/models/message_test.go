package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageIsBroadcast(t *testing.T) {
	tests := []struct {
		name    string
		message Message
		want    bool
	}{
		{name: "no addressee", message: Message{Sender: "alice", Content: "hi"}, want: true},
		{name: "recipient set", message: Message{Sender: "alice", Recipient: "bob"}, want: false},
		{name: "group set", message: Message{Sender: "alice", GroupID: "team-1"}, want: false},
		{name: "both set", message: Message{Recipient: "bob", GroupID: "team-1"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.message.IsBroadcast())
		})
	}
}
