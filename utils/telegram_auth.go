// utils/telegram_auth.go
package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Errors returned by VerifyInitData
var (
	ErrInitDataNoHash    = errors.New("initData has no hash field")
	ErrInitDataBadHash   = errors.New("initData hash mismatch")
	ErrInitDataExpired   = errors.New("initData auth_date is too old")
	ErrInitDataNoUser    = errors.New("initData has no user field")
	ErrInitDataSignature = errors.New("initData signature verification failed")
)

// TelegramUser is the identity block embedded in WebApp initData
type TelegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
}

// VerifyInitData validates a Telegram WebApp initData string against the bot
// token per the Bot API signing scheme: the data-check-string is every field
// except hash, sorted by key, joined with newlines; the signing secret is
// HMAC-SHA256 of the bot token keyed with "WebAppData".
// maxAge bounds how old auth_date may be; 0 disables the age check.
func VerifyInitData(initData, botToken string, maxAge time.Duration) (*TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("malformed initData: %w", err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, ErrInitDataNoHash
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	dataCheckString := strings.Join(pairs, "\n")

	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(botToken))
	secret := secretMac.Sum(nil)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(dataCheckString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(gotHash)) {
		return nil, ErrInitDataBadHash
	}

	if maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed auth_date: %w", err)
		}
		if time.Since(time.Unix(authDate, 0)) > maxAge {
			return nil, ErrInitDataExpired
		}
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, ErrInitDataNoUser
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("malformed user field: %w", err)
	}

	return &user, nil
}
