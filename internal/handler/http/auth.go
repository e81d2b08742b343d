package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/attendance-core-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler interface {
	KioskLogin(w http.ResponseWriter, r *http.Request)
}

type KioskLoginRequest struct {
	KioskID string `json:"kiosk_id"`
	Key     string `json:"key"`
}

func (req *KioskLoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(req.KioskID) {
		errs = append(errs, validator.ValidationError{
			Field:   "kiosk_id",
			Message: "kiosk_id is required",
		})
	}
	if validator.IsEmpty(req.Key) {
		errs = append(errs, validator.ValidationError{
			Field:   "key",
			Message: "key is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type KioskLoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type authHandlerImpl struct {
	jwtService   jwt.Service
	kioskKeyHash string
}

// NewAuthHandler wires the kiosk token exchange. All kiosks share one
// enrollment key; the handler only sees its bcrypt hash.
func NewAuthHandler(jwtService jwt.Service, kioskKeyHash string) AuthHandler {
	return &authHandlerImpl{
		jwtService:   jwtService,
		kioskKeyHash: kioskKeyHash,
	}
}

// KioskLogin implements AuthHandler.
func (h *authHandlerImpl) KioskLogin(w http.ResponseWriter, r *http.Request) {
	var req KioskLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.kioskKeyHash), []byte(req.Key)); err != nil {
		response.Unauthorized(w, "Invalid kiosk key")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateKioskToken(req.KioskID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, KioskLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
