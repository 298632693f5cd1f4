package crypto

import (
	"strings"
	"testing"
)

func TestKeccak256Hex(t *testing.T) {
	t.Run("known vector", func(t *testing.T) {
		// keccak256("") - известное значение из спецификации Keccak
		got := Keccak256Hex(nil)
		want := "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
		if got != want {
			t.Errorf("Keccak256Hex(nil) = %s, want %s", got, want)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := Keccak256Hex([]byte("payload"))
		b := Keccak256Hex([]byte("payload"))
		if a != b {
			t.Errorf("same input produced different digests: %s != %s", a, b)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		if Keccak256Hex([]byte("a")) == Keccak256Hex([]byte("b")) {
			t.Error("different inputs produced identical digests")
		}
	})
}

func TestSignPayload(t *testing.T) {
	const key = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

	t.Run("stable for same key and payload", func(t *testing.T) {
		s1, err := SignPayload(key, []byte(`{"symbol":"BTC_USDT_Perp"}`))
		if err != nil {
			t.Fatalf("SignPayload error: %v", err)
		}
		s2, _ := SignPayload(key, []byte(`{"symbol":"BTC_USDT_Perp"}`))
		if s1 != s2 {
			t.Errorf("signature not deterministic: %s != %s", s1, s2)
		}
		if !strings.HasPrefix(s1, "0x") || len(s1) != 66 {
			t.Errorf("unexpected signature shape: %s", s1)
		}
	})

	t.Run("different keys produce different signatures", func(t *testing.T) {
		other := "0x" + strings.Repeat("ab", 32)
		s1, _ := SignPayload(key, []byte("x"))
		s2, _ := SignPayload(other, []byte("x"))
		if s1 == s2 {
			t.Error("different keys produced identical signatures")
		}
	})

	t.Run("rejects non-hex key", func(t *testing.T) {
		if _, err := SignPayload("not-a-key", []byte("x")); err == nil {
			t.Error("expected error for non-hex key")
		}
	})

	t.Run("accepts key without 0x prefix", func(t *testing.T) {
		if _, err := SignPayload(strings.TrimPrefix(key, "0x"), []byte("x")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
