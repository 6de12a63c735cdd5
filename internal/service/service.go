// Package service implements SF: the narrow request/response facade the
// outer HTTP layer calls into, routing single-mode wallets to ED and
// threshold-mode wallets to TC. Grounded on the teacher retrieval pack's
// sibling node server (Layr-Labs-eigenx-kms-go/pkg/node): a plain
// net/http.ServeMux with one handler per route, zap for structured request
// logging, and component errors mapped to HTTP status codes at the edge
// rather than inside the core.
package service

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mukulkatewa/tss-signer/internal/config"
	"github.com/mukulkatewa/tss-signer/internal/coordinator"
	"github.com/mukulkatewa/tss-signer/internal/ed25519signer"
	"github.com/mukulkatewa/tss-signer/internal/tsserr"
	"go.uber.org/zap"
)

// Service is SF. It holds no wallet state; every call is forwarded to ED or
// TC and the result (or typed error) is translated to JSON.
type Service struct {
	ed     *ed25519signer.Signer
	tc     *coordinator.Coordinator
	cfg    config.Config
	logger *zap.Logger
}

// New constructs a Service wired to the given signer, coordinator, and
// configuration.
func New(ed *ed25519signer.Signer, tc *coordinator.Coordinator, cfg config.Config, logger *zap.Logger) *Service {
	return &Service{ed: ed, tc: tc, cfg: cfg, logger: logger}
}

// Routes returns an http.Handler with every endpoint from spec.md §6
// registered.
func (s *Service) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /wallets/generate", s.handleWalletGenerate)
	mux.HandleFunc("POST /wallets/sign-order", s.handleWalletSignOrder)
	mux.HandleFunc("POST /wallets/sign", s.handleWalletSign)
	mux.HandleFunc("GET /wallets/{walletId}/public-key", s.handleWalletPublicKey)

	mux.HandleFunc("GET /mpc/status", s.handleMPCStatus)
	mux.HandleFunc("POST /mpc/wallets/generate", s.handleMPCWalletGenerate)
	mux.HandleFunc("POST /mpc/wallets/sign-order", s.handleMPCWalletSignOrder)

	return mux
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"service":    "tss-signer",
		"mpcEnabled": true,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Service) handleMPCStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mpcEnabled": true,
		"nodes":      s.cfg.MPCNodes,
		"threshold":  s.cfg.MPCThreshold,
	})
}

type walletGenerateRequest struct {
	WalletID string                 `json:"walletId"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func (s *Service) handleWalletGenerate(w http.ResponseWriter, r *http.Request) {
	var req walletGenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.WalletID == "" {
		writeError(w, tsserr.InvalidInput("service.handleWalletGenerate", fmt.Errorf("walletId is required")))
		return
	}

	pub, err := s.ed.Generate(r.Context(), req.WalletID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"wallet": map[string]interface{}{
			"walletId":  req.WalletID,
			"publicKey": hexPrefixed(pub),
			"createdAt": time.Now().UTC().Format(time.RFC3339),
			"metadata":  req.Metadata,
		},
	})
}

type signOrderRequest struct {
	WalletID     string          `json:"walletId"`
	OrderPayload json.RawMessage `json:"orderPayload"`
}

func (s *Service) handleWalletSignOrder(w http.ResponseWriter, r *http.Request) {
	var req signOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.WalletID == "" || len(req.OrderPayload) == 0 {
		writeError(w, tsserr.InvalidInput("service.handleWalletSignOrder", fmt.Errorf("walletId and orderPayload are required")))
		return
	}

	var payload interface{}
	if err := json.Unmarshal(req.OrderPayload, &payload); err != nil {
		writeError(w, tsserr.InvalidInput("service.handleWalletSignOrder", err))
		return
	}

	sig, err := s.ed.SignPayload(r.Context(), req.WalletID, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	pub, err := s.ed.PublicKey(r.Context(), req.WalletID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"signature": hexPrefixed(sig),
		"publicKey": hexPrefixed(pub),
		"walletId":  req.WalletID,
	})
}

type signRequest struct {
	WalletID string `json:"walletId"`
	Message  string `json:"message"`
}

func (s *Service) handleWalletSign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.WalletID == "" || req.Message == "" {
		writeError(w, tsserr.InvalidInput("service.handleWalletSign", fmt.Errorf("walletId and message are required")))
		return
	}

	sig, err := s.ed.Sign(r.Context(), req.WalletID, []byte(req.Message))
	if err != nil {
		writeError(w, err)
		return
	}
	pub, err := s.ed.PublicKey(r.Context(), req.WalletID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"signature": hexPrefixed(sig),
		"publicKey": hexPrefixed(pub),
		"walletId":  req.WalletID,
	})
}

func (s *Service) handleWalletPublicKey(w http.ResponseWriter, r *http.Request) {
	walletID := r.PathValue("walletId")
	if walletID == "" {
		writeError(w, tsserr.InvalidInput("service.handleWalletPublicKey", fmt.Errorf("walletId is required")))
		return
	}

	pub, err := s.ed.PublicKey(r.Context(), walletID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"walletId":  walletID,
		"publicKey": hexPrefixed(pub),
	})
}

func (s *Service) handleMPCWalletGenerate(w http.ResponseWriter, r *http.Request) {
	var req walletGenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.WalletID == "" {
		writeError(w, tsserr.InvalidInput("service.handleMPCWalletGenerate", fmt.Errorf("walletId is required")))
		return
	}

	res, err := s.tc.PerformDKG(r.Context(), req.WalletID, s.cfg.MPCThreshold, s.cfg.MPCNodes)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.tc.InitializeParties(r.Context(), req.WalletID, s.cfg.MPCNodes); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"wallet": map[string]interface{}{
			"walletId":  req.WalletID,
			"publicKey": hexPrefixed(res.MasterPublicKey.Encode(true)),
			"shareIds":  res.ShareIDs,
		},
	})
}

func (s *Service) handleMPCWalletSignOrder(w http.ResponseWriter, r *http.Request) {
	var req signOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.WalletID == "" || len(req.OrderPayload) == 0 {
		writeError(w, tsserr.InvalidInput("service.handleMPCWalletSignOrder", fmt.Errorf("walletId and orderPayload are required")))
		return
	}

	signingIDs := make([]int, s.cfg.MPCThreshold)
	for i := range signingIDs {
		signingIDs[i] = i + 1
	}

	message, err := canonicalOrderBytes(req.OrderPayload)
	if err != nil {
		writeError(w, tsserr.InvalidInput("service.handleMPCWalletSignOrder", err))
		return
	}
	sig, err := s.tc.Sign(r.Context(), req.WalletID, message, signingIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"signature": hexPrefixed(sig.Bytes()),
		"method":    "threshold",
		"walletId":  req.WalletID,
	})
}

// canonicalOrderBytes produces the same canonicalization ed25519signer.
// SignPayload applies, so single-mode and threshold-mode order signing
// commit to one serialization rule for equivalent input (spec.md §6
// recommends a canonical form; it must be the same one on both paths).
// The threshold path signs through the Coordinator rather than a Signer, so
// it cannot call SignPayload directly and instead shares its canonicalizer.
func canonicalOrderBytes(raw json.RawMessage) ([]byte, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return ed25519signer.CanonicalJSON(v)
}

func hexPrefixed(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, tsserr.InvalidInput("service.decodeJSON", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a tsserr.Error's Kind onto an HTTP status code per
// spec.md §7 and writes a structured error body. Secrets never appear in
// error messages since no component ever places secret material in an
// Error's Op or wrapped message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := tsserr.KindInternal
	if e, ok := err.(*tsserr.Error); ok {
		kind = e.Kind
		switch kind {
		case tsserr.KindInvalidInput:
			status = http.StatusBadRequest
		case tsserr.KindNotFound:
			status = http.StatusNotFound
		case tsserr.KindConflict:
			status = http.StatusConflict
		case tsserr.KindCryptoFailure:
			status = http.StatusBadRequest
		case tsserr.KindIOError:
			status = http.StatusInternalServerError
		case tsserr.KindInternal:
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
		"kind":    kind.String(),
	})
}
