package repository

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"mailbot/internal/model"
)

// RecordCodec signs records at rest as HS256 JWS compact strings so that
// storage-layer tampering or corruption is detectable at read time.
type RecordCodec struct {
	secret []byte
}

func NewRecordCodec(secret string) *RecordCodec {
	return &RecordCodec{secret: []byte(secret)}
}

type recordClaims struct {
	Record *model.UserRecord `json:"record"`
	jwt.RegisteredClaims
}

func (c *RecordCodec) Encode(record *model.UserRecord) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, recordClaims{Record: record})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign user record: %w", err)
	}
	return signed, nil
}

func (c *RecordCodec) Decode(raw string) (*model.UserRecord, error) {
	claims := &recordClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("failed to verify user record: %w", err)
	}
	if claims.Record == nil {
		return nil, fmt.Errorf("user record payload missing")
	}
	return claims.Record, nil
}
