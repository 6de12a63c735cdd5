package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mukulkatewa/tss-signer/internal/config"
	"github.com/mukulkatewa/tss-signer/internal/coordinator"
	"github.com/mukulkatewa/tss-signer/internal/ed25519signer"
	"github.com/mukulkatewa/tss-signer/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() *Service {
	s := store.NewMemStore()
	ed := ed25519signer.New(s)
	tc := coordinator.New(s, zap.NewNop())
	cfg := config.Config{MPCNodes: 3, MPCThreshold: 2}
	return New(ed, tc, cfg, zap.NewNop())
}

func TestHealthEndpoint(t *testing.T) {
	svc := newTestService()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWalletGenerateAndSignOrder(t *testing.T) {
	svc := newTestService()

	genReq := httptest.NewRequest(http.MethodPost, "/wallets/generate", strings.NewReader(`{"walletId":"w1"}`))
	genRec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(genRec, genReq)
	require.Equal(t, http.StatusOK, genRec.Code)

	signReq := httptest.NewRequest(http.MethodPost, "/wallets/sign-order", strings.NewReader(`{"walletId":"w1","orderPayload":{"side":"buy","qty":1}}`))
	signRec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(signRec, signReq)
	require.Equal(t, http.StatusOK, signRec.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(signRec.Body).Decode(&body))
	require.True(t, body["success"].(bool))
	require.True(t, strings.HasPrefix(body["signature"].(string), "0x"))
}

func TestMPCWalletGenerateAndSign(t *testing.T) {
	svc := newTestService()

	genReq := httptest.NewRequest(http.MethodPost, "/mpc/wallets/generate", strings.NewReader(`{"walletId":"w2"}`))
	genRec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(genRec, genReq)
	require.Equal(t, http.StatusOK, genRec.Code)

	signReq := httptest.NewRequest(http.MethodPost, "/mpc/wallets/sign-order", strings.NewReader(`{"walletId":"w2","orderPayload":{"side":"sell","qty":2}}`))
	signRec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(signRec, signReq)
	require.Equal(t, http.StatusOK, signRec.Code)
}

func TestMPCWalletGenerateConflict(t *testing.T) {
	svc := newTestService()

	body := `{"walletId":"w3"}`
	first := httptest.NewRequest(http.MethodPost, "/mpc/wallets/generate", strings.NewReader(body))
	firstRec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(firstRec, first)
	require.Equal(t, http.StatusOK, firstRec.Code)

	second := httptest.NewRequest(http.MethodPost, "/mpc/wallets/generate", strings.NewReader(body))
	secondRec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(secondRec, second)
	require.Equal(t, http.StatusConflict, secondRec.Code)
}

func TestWalletSignOrderMissingFieldsIsBadRequest(t *testing.T) {
	svc := newTestService()
	req := httptest.NewRequest(http.MethodPost, "/wallets/sign-order", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestOrderCanonicalizationMatchesAcrossModes confirms single-mode and
// threshold-mode order signing commit to the same canonical serialization
// for the same logical payload, independent of key order or whitespace in
// the request body.
func TestOrderCanonicalizationMatchesAcrossModes(t *testing.T) {
	viaSignPayload, err := ed25519signer.CanonicalJSON(map[string]interface{}{"qty": float64(1), "side": "buy"})
	require.NoError(t, err)

	viaThresholdPath, err := canonicalOrderBytes(json.RawMessage(`{"side": "buy", "qty": 1}`))
	require.NoError(t, err)

	require.Equal(t, viaSignPayload, viaThresholdPath)
}
