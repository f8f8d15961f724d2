package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456789:TESTTOKENAAAABBBBCCCCDDDDEEEEFFFF"

// signInitData builds a signed initData query string the way the Telegram
// client does.
func signInitData(fields map[string]string, botToken string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secretMac.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func validFields() map[string]string {
	return map[string]string{
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
		"query_id":  "AAHdF6IQAAAAAN0XohDhrOrc",
		"user":      `{"id":42,"first_name":"Ada","last_name":"L","username":"ada","photo_url":"https://t.me/i/userpic/a.jpg"}`,
	}
}

func TestVerifyInitData(t *testing.T) {
	initData := signInitData(validFields(), testBotToken)

	user, err := VerifyInitData(initData, testBotToken, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "Ada", user.FirstName)
}

func TestVerifyInitDataRejectsTampering(t *testing.T) {
	fields := validFields()
	initData := signInitData(fields, testBotToken)

	// Swap in a different user after signing
	values, err := url.ParseQuery(initData)
	require.NoError(t, err)
	values.Set("user", `{"id":999,"first_name":"Eve"}`)

	_, err = VerifyInitData(values.Encode(), testBotToken, time.Hour)
	assert.ErrorIs(t, err, ErrInitDataBadHash)
}

func TestVerifyInitDataRejectsWrongBotToken(t *testing.T) {
	initData := signInitData(validFields(), testBotToken)

	_, err := VerifyInitData(initData, "987654321:OTHERTOKEN", time.Hour)
	assert.ErrorIs(t, err, ErrInitDataBadHash)
}

func TestVerifyInitDataRequiresHash(t *testing.T) {
	_, err := VerifyInitData("auth_date=123&user=%7B%22id%22%3A1%7D", testBotToken, 0)
	assert.ErrorIs(t, err, ErrInitDataNoHash)
}

func TestVerifyInitDataExpiry(t *testing.T) {
	fields := validFields()
	fields["auth_date"] = fmt.Sprintf("%d", time.Now().Add(-48*time.Hour).Unix())
	initData := signInitData(fields, testBotToken)

	_, err := VerifyInitData(initData, testBotToken, 24*time.Hour)
	assert.ErrorIs(t, err, ErrInitDataExpired)

	// A zero maxAge disables the age check
	_, err = VerifyInitData(initData, testBotToken, 0)
	assert.NoError(t, err)
}

func TestVerifyInitDataRequiresUser(t *testing.T) {
	fields := validFields()
	delete(fields, "user")
	initData := signInitData(fields, testBotToken)

	_, err := VerifyInitData(initData, testBotToken, time.Hour)
	assert.ErrorIs(t, err, ErrInitDataNoUser)
}
