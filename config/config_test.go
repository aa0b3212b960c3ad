package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ezlog-go/ezlog/config"
	"github.com/ezlog-go/ezlog/format"
)

func TestNewAppliesDefaults(t *testing.T) {
	c, err := config.New("app", "/var/log/app")
	require.NoError(t, err)
	require.Equal(t, "app", c.Name)
	require.Equal(t, config.DefaultFileSuffix, c.FileSuffix)
	require.Equal(t, config.DefaultMaxSize, c.MaxSize)
	require.Equal(t, config.DefaultRetention, c.Retention)
}

func TestNewRejectsEmptyName(t *testing.T) {
	_, err := config.New("", "/var/log")
	require.Error(t, err)
}

func TestNewFloorsMaxSizeAtMin(t *testing.T) {
	c, err := config.New("app", "/tmp", config.WithMaxSize(1))
	require.NoError(t, err)
	require.Equal(t, config.MinSize, c.MaxSize)
}

func TestNewValidatesCipherKeySize(t *testing.T) {
	_, err := config.New("app", "/tmp",
		config.WithCipher(format.CipherAes256Gcm, make([]byte, 16), make([]byte, 12)))
	require.Error(t, err)
}

func TestNewAcceptsMatchingCipherSizes(t *testing.T) {
	c, err := config.New("app", "/tmp",
		config.WithCipher(format.CipherAes256Gcm, make([]byte, 32), make([]byte, 12)))
	require.NoError(t, err)
	require.Equal(t, format.CipherAes256Gcm, c.Cipher)
}

func TestFileNameAndDateOfRoundTrip(t *testing.T) {
	c, err := config.New("app", "/tmp")
	require.NoError(t, err)

	when := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	name := c.FileName(when)
	require.Equal(t, "app_2026_07_29.log", name)

	date, err := c.DateOf(name)
	require.NoError(t, err)
	require.True(t, date.Equal(time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)))
}

func TestDateOfAcceptsRotatedName(t *testing.T) {
	c, err := config.New("app", "/tmp")
	require.NoError(t, err)

	date, err := c.DateOf("app_2026_07_29.1.log")
	require.NoError(t, err)
	require.Equal(t, 2026, date.Year())
}

func TestDateOfRejectsForeignName(t *testing.T) {
	c, err := config.New("app", "/tmp")
	require.NoError(t, err)

	_, err = c.DateOf("other_2026_07_29.log")
	require.Error(t, err)
}

func TestExpiredAt(t *testing.T) {
	c, err := config.New("app", "/tmp", config.WithRetention(24*time.Hour))
	require.NoError(t, err)

	fileDate := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	require.True(t, c.ExpiredAt(fileDate, now))
	require.False(t, c.ExpiredAt(now, now))
}

func TestFromJSON(t *testing.T) {
	doc := []byte(`{"name":"app","compress":"zlib","cipher":"aes128gcm","key":"000102030405060708090a0b0c0d0e0f","nonce":"000102030405060708090a0b"}`)
	c, err := config.FromJSON(doc)
	require.NoError(t, err)
	require.Equal(t, format.CompressZlib, c.Compress)
	require.Equal(t, format.CipherAes128Gcm, c.Cipher)
	require.Len(t, c.CipherKey, 16)
	require.Len(t, c.CipherNonce, 12)
}

func TestFromJSONRejectsBadKeyLength(t *testing.T) {
	doc := []byte(`{"cipher":"aes256gcm","key":"00","nonce":"000102030405060708090a0b"}`)
	_, err := config.FromJSON(doc)
	require.Error(t, err)
}
