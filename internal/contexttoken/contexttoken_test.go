package contexttoken

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSigner() *Signer {
	return NewSigner([]byte("0123456789abcdef0123456789abcdef"), true)
}

func TestGenerateAndVerify(t *testing.T) {
	s := testSigner()
	token := s.Generate("user-1")
	assert.NoError(t, s.Verify(token, "user-1"))
}

func TestVerifySessionMismatch(t *testing.T) {
	s := testSigner()
	token := s.Generate("user-1")
	assert.ErrorIs(t, s.Verify(token, "user-2"), ErrSessionMismatch)
}

func TestVerifyBadFormat(t *testing.T) {
	s := testSigner()
	assert.ErrorIs(t, s.Verify("not-a-token", "user-1"), ErrBadFormat)
}

func TestVerifyTamperedSignature(t *testing.T) {
	s := testSigner()
	token := s.Generate("user-1")
	tampered := token[:len(token)-2] + "xx"
	err := s.Verify(tampered, "user-1")
	assert.True(t, err == ErrBadSignature || err == ErrBadFormat)
}

func TestVerifyContextTokenAndPage(t *testing.T) {
	s := testSigner()
	req := httptest.NewRequest(http.MethodPost, "/link", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: s.Generate("user-1")})

	require.NoError(t, s.VerifyContextTokenAndPage(req, nil, "user-1"))

	page := "user-2"
	err := s.VerifyContextTokenAndPage(req, &page, "user-1")
	assert.ErrorIs(t, err, ErrSessionMismatch)
}

func TestVerifyContextTokenMissingCookie(t *testing.T) {
	s := testSigner()
	req := httptest.NewRequest(http.MethodPost, "/link", nil)
	err := s.VerifyContextTokenAndPage(req, nil, "user-1")
	assert.Error(t, err)
}

func TestCookieForDisabled(t *testing.T) {
	s := NewSigner([]byte("0123456789abcdef0123456789abcdef"), false)
	assert.Equal(t, "", s.CookieFor("user-1"))
}
