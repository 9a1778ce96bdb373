package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/account-server/internal/model"
)

func TestManager_SetAndGetAuthorization(t *testing.T) {
	m := NewManager()
	auth := model.AuthorizationResult{
		Identity: uuid.New(),
		Scopes:   model.Scopes{model.ScopeStandard},
	}
	ctx := m.SetAuthorizationToContext(stdctx.Background(), auth)

	got, ok := m.GetAuthorizationFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, auth, got)
}

func TestManager_GetAuthorization_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetAuthorizationFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_IgnoresMetadata(t *testing.T) {
	m := NewManager()
	md := metadata.New(map[string]string{"user_id": uuid.NewString()})
	ctx := metadata.NewIncomingContext(stdctx.Background(), md)

	_, ok := m.GetAuthorizationFromContext(ctx)
	assert.False(t, ok)
}
