package crypto

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// sign.go - подпись биржевых payload
//
// Назначение:
// Вычисление keccak256 дайджестов, которые сессия GRVT прикладывает
// к подписываемым запросам (создание и отмена ордеров).
//
// Дайджест строится из канонической сериализации payload и приватного
// ключа сессии. Сам протокол подписи принадлежит connectivity-слою
// биржи; здесь только криптографический примитив.

// Keccak256 возвращает keccak256 хэш данных
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// Keccak256Hex возвращает keccak256 хэш в hex с префиксом 0x
func Keccak256Hex(data []byte) string {
	return "0x" + hex.EncodeToString(Keccak256(data))
}

// SignPayload вычисляет подпись payload приватным ключом сессии.
//
// Схема: keccak256(privateKey || keccak256(payload)), hex с префиксом 0x.
// Приватный ключ принимается в hex, префикс 0x допустим.
func SignPayload(privateKeyHex string, payload []byte) (string, error) {
	keyBytes, err := DecodeKey(privateKeyHex)
	if err != nil {
		return "", err
	}

	inner := Keccak256(payload)
	outer := Keccak256(append(keyBytes, inner...))
	return "0x" + hex.EncodeToString(outer), nil
}

// DecodeKey декодирует hex-представление приватного ключа
func DecodeKey(keyHex string) ([]byte, error) {
	trimmed := strings.TrimPrefix(keyHex, "0x")
	return hex.DecodeString(trimmed)
}
