package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestMessageable(t *testing.T) {
	for _, typ := range []tele.ChatType{
		tele.ChatPrivate,
		tele.ChatGroup,
		tele.ChatSuperGroup,
		tele.ChatChannel,
		tele.ChatChannelPrivate,
	} {
		assert.True(t, messageable(typ), "chat type %q should be messageable", typ)
	}

	assert.False(t, messageable(tele.ChatType("unknown")))
	assert.False(t, messageable(tele.ChatType("")))
}

func TestClient_Channel_CacheLookup(t *testing.T) {
	c := &Client{chats: map[int64]*tele.Chat{
		42: {ID: 42, Type: tele.ChatChannel},
	}}

	target, ok := c.Channel(42)
	assert.True(t, ok)
	assert.NotNil(t, target)

	target, ok = c.Channel(99)
	assert.False(t, ok)
	assert.Nil(t, target)
}

func TestClient_Close_DropsCache(t *testing.T) {
	c := &Client{chats: map[int64]*tele.Chat{
		42: {ID: 42, Type: tele.ChatChannel},
	}}

	assert.NoError(t, c.Close())

	_, ok := c.Channel(42)
	assert.False(t, ok)
}
