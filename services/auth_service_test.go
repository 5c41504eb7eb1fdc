package services

import (
	"encoding/json"
	"testing"

	"ufmarketplace_go/config"
	"ufmarketplace_go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(setupTestDB(t), config.NewJWTService(), nil)
}

func TestRegisterIssuesTokenAndNeverLeaksPassword(t *testing.T) {
	as := newAuthService(t)

	user, token, err := as.Register(&RegisterRequest{
		Email:     "alice@ufl.edu",
		Password:  "Abc123!",
		FirstName: "Alice",
		LastName:  "Adams",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Stored hash is never the plaintext and verifies against it.
	assert.NotEqual(t, "Abc123!", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Abc123!")))

	// Neither serialization of the user carries the hash.
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), user.Password)

	raw, err = json.Marshal(user.ToResponse())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), user.Password)
	assert.NotContains(t, string(raw), "password")
}

func TestRegisterRejectsForeignDomain(t *testing.T) {
	as := newAuthService(t)

	_, _, err := as.Register(&RegisterRequest{
		Email:     "mallory@gmail.com",
		Password:  "Abc123!",
		FirstName: "Mallory",
		LastName:  "Mills",
	})
	requireKind(t, err, utils.KindInvalidInput)
}

func TestRegisterDuplicateEmailIsConflictAnyCasing(t *testing.T) {
	as := newAuthService(t)

	_, _, err := as.Register(&RegisterRequest{
		Email: "alice@ufl.edu", Password: "Abc123!", FirstName: "Alice", LastName: "Adams",
	})
	require.NoError(t, err)

	_, _, err = as.Register(&RegisterRequest{
		Email: "ALICE@UFL.EDU", Password: "Xyz789$", FirstName: "Alice", LastName: "Again",
	})
	requireKind(t, err, utils.KindConflict)
}

func TestRegisterConflictWhenIndexHoldsEmail(t *testing.T) {
	as := newAuthService(t)

	user, _, err := as.Register(&RegisterRequest{
		Email: "alice@ufl.edu", Password: "Abc123!", FirstName: "Alice", LastName: "Adams",
	})
	require.NoError(t, err)

	// Soft-delete the account: the pre-check lookup no longer sees it, but
	// the unique index still holds the email. The insert-level duplicate
	// must surface as a conflict, not an internal error.
	require.NoError(t, as.db.Delete(user).Error)

	_, _, err = as.Register(&RegisterRequest{
		Email: "alice@ufl.edu", Password: "Xyz789$", FirstName: "Alice", LastName: "Again",
	})
	requireKind(t, err, utils.KindConflict)
}

func TestLoginFailureIsUniform(t *testing.T) {
	as := newAuthService(t)

	_, _, err := as.Register(&RegisterRequest{
		Email: "alice@ufl.edu", Password: "Abc123!", FirstName: "Alice", LastName: "Adams",
	})
	require.NoError(t, err)

	_, _, wrongPassword := as.Login(&LoginRequest{Email: "alice@ufl.edu", Password: "nope"}, "127.0.0.1")
	_, _, noSuchUser := as.Login(&LoginRequest{Email: "ghost@ufl.edu", Password: "Abc123!"}, "127.0.0.1")

	requireKind(t, wrongPassword, utils.KindUnauthenticated)
	requireKind(t, noSuchUser, utils.KindUnauthenticated)

	// Identical message, no account enumeration.
	var a, b *utils.AppError
	require.ErrorAs(t, wrongPassword, &a)
	require.ErrorAs(t, noSuchUser, &b)
	assert.Equal(t, a.Message, b.Message)
}

func TestLoginIssuesValidToken(t *testing.T) {
	as := newAuthService(t)
	jwtService := config.NewJWTService()

	_, _, err := as.Register(&RegisterRequest{
		Email: "alice@ufl.edu", Password: "Abc123!", FirstName: "Alice", LastName: "Adams",
	})
	require.NoError(t, err)

	user, token, err := as.Login(&LoginRequest{Email: "Alice@UFL.edu", Password: "Abc123!"}, "127.0.0.1")
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@ufl.edu", claims.Email)
	assert.False(t, claims.IsAdmin)
	assert.NotNil(t, claims.ExpiresAt)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.NotBefore)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	jwtService := config.NewJWTService()

	_, err := jwtService.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	as := newAuthService(t)

	user, _, err := as.Register(&RegisterRequest{
		Email: "alice@ufl.edu", Password: "Abc123!", FirstName: "Alice", LastName: "Adams",
	})
	require.NoError(t, err)

	err = as.ChangePassword(user.ID, "wrong-current", "Xyz789$")
	requireKind(t, err, utils.KindInvalidInput)

	require.NoError(t, as.ChangePassword(user.ID, "Abc123!", "Xyz789$"))

	// Old password no longer works, new one does.
	_, _, err = as.Login(&LoginRequest{Email: "alice@ufl.edu", Password: "Abc123!"}, "127.0.0.1")
	requireKind(t, err, utils.KindUnauthenticated)

	_, _, err = as.Login(&LoginRequest{Email: "alice@ufl.edu", Password: "Xyz789$"}, "127.0.0.1")
	require.NoError(t, err)
}
