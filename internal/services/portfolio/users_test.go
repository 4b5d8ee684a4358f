package portfolio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

func newTestUserService() (*UserService, *memPortfolioStore) {
	portfolios := newMemPortfolioStore()
	return NewUserService(newMemUserStore(), portfolios, common.NewSilentLogger()), portfolios
}

func TestRegister_CreatesUserAndDefaultPortfolio(t *testing.T) {
	svc, portfolios := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "Str0ng!pass")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "Str0ng!pass", user.PasswordHash, "password must be stored hashed")

	owned, err := portfolios.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, "My Portfolio", owned[0].Name)
	require.True(t, owned[0].IsDefault)
}

func TestRegister_RejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "Str0ng!pass")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "An0ther!pass")
	require.ErrorIs(t, err, models.ErrUsernameTaken)
}

func TestRegister_ValidatesInput(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ab", "Str0ng!pass")
	require.True(t, models.IsValidation(err), "short username should be rejected")

	_, err = svc.Register(ctx, "alice", "weak")
	require.True(t, models.IsValidation(err), "weak password should be rejected")
}

func TestGetUser(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "Str0ng!pass")
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, registered.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	_, err = svc.GetUser(ctx, "no-such-user")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "Str0ng!pass")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice", "Str0ng!pass")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	// Wrong password and unknown user yield the same error.
	_, err = svc.Authenticate(ctx, "alice", "Wr0ng!pass1")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "Str0ng!pass")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}
