package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticAuthRepo struct {
	password string
}

func (r staticAuthRepo) GetPassword(context.Context) (string, error) {
	return r.password, nil
}

func TestLoginAndValidate(t *testing.T) {
	svc := NewAuthService(staticAuthRepo{password: "secret"}, "hmac-key")
	ctx := context.Background()

	token, err := svc.Login(ctx, "secret")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	ok, err := svc.ValidateToken(ctx, token)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(staticAuthRepo{password: "secret"}, "hmac-key")

	_, err := svc.Login(context.Background(), "nope")
	assert.Error(t, err)
}

func TestLoginEmptyStoredPassword(t *testing.T) {
	svc := NewAuthService(staticAuthRepo{}, "hmac-key")

	_, err := svc.Login(context.Background(), "")
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewAuthService(staticAuthRepo{password: "secret"}, "hmac-key")

	ok, err := svc.ValidateToken(context.Background(), "garbage")
	assert.NoError(t, err)
	assert.False(t, ok)
}
