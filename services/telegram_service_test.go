package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveToken(t *testing.T) {
	service := &TelegramService{defaultToken: "platform-token"}

	token, err := service.ResolveToken("owner-token")
	assert.NoError(t, err)
	assert.Equal(t, "owner-token", token)

	token, err = service.ResolveToken("")
	assert.NoError(t, err)
	assert.Equal(t, "platform-token", token)

	empty := &TelegramService{}
	_, err = empty.ResolveToken("")
	assert.ErrorIs(t, err, ErrNoBotToken)
}

func TestClassifySendError(t *testing.T) {
	err := classifySendError(errors.New("Unauthorized"))
	assert.ErrorIs(t, err, ErrBadToken)

	err = classifySendError(errors.New("Bad Request: chat not found"))
	assert.ErrorIs(t, err, ErrBadChatID)

	err = classifySendError(errors.New("Forbidden: bot was kicked from the group chat"))
	assert.ErrorIs(t, err, ErrBadChatID)

	plain := errors.New("connection reset by peer")
	err = classifySendError(plain)
	assert.Equal(t, plain, err)
}

func TestSendMessageRejectsNonNumericChatID(t *testing.T) {
	service := &TelegramService{defaultToken: "platform-token"}

	err := service.SendMessage("", "@channelname", "hi")
	assert.ErrorIs(t, err, ErrBadChatID)
}
