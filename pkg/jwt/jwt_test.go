package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/ops-dashboard-api/pkg/jwt"
)

const testSecret = "test-secret"

func TestGenerateYParse_DevuelveClaims(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "sid-1", 7, 2, "supervisor", "ops-test", 10)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID())
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, int64(2), claims.CompanyID)
	assert.Equal(t, "supervisor", claims.Role)
	assert.Equal(t, "ops-test", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "sid-1", 1, 1, "admin", "ops-test", 10)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "sid-1", 1, 1, "admin", "ops-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "un token con exp en el pasado debe rechazarse")
}

func TestGenerate_SinSecretoNiSesion(t *testing.T) {
	_, err := pkgjwt.Generate("", "sid", 1, 1, "admin", "x", 10)
	assert.Error(t, err)

	_, err = pkgjwt.Generate(testSecret, "", 1, 1, "admin", "x", 10)
	assert.Error(t, err)
}
