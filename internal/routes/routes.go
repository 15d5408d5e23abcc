package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/haguru/courier/internal/authservice"
	"github.com/haguru/courier/internal/interfaces"
	"github.com/haguru/courier/internal/messagerouter"
	"github.com/haguru/courier/internal/middleware"
	"github.com/haguru/courier/internal/models"
	"github.com/haguru/courier/internal/models/dto"

	structValidator "github.com/go-playground/validator/v10"
)

type Route struct {
	Metrics     interfaces.Metrics
	AuthService *authservice.AuthService
	Router      *messagerouter.Router
	validator   *structValidator.Validate
}

// NewRoute creates a new Route instance.
func NewRoute(metrics interfaces.Metrics, authService *authservice.AuthService,
	router *messagerouter.Router, validator *structValidator.Validate,
) *Route {
	return &Route{
		Metrics:     metrics,
		AuthService: authService,
		Router:      router,
		validator:   validator,
	}
}

// Register handles account creation requests and returns a signed token.
func (r *Route) Register(w http.ResponseWriter, req *http.Request) {
	if !r.requirePostJSON(w, req) {
		return
	}

	r.incCounter(RegisterRequestsTotal)

	registerRequest := &dto.RegisterRequestDTO{}
	if !r.decodeAndValidate(w, req, registerRequest, RegisterErrorsTotal) {
		return
	}

	startTime := time.Now()
	token, err := r.AuthService.Register(req.Context(), registerRequest.Username, registerRequest.Password)
	r.observeHistogram(RegisterDurationSeconds, time.Since(startTime).Seconds())
	if err != nil {
		if errors.Is(err, authservice.ErrUsernameTaken) {
			w.WriteHeader(http.StatusConflict)
			r.errorResponse(w, err, ErrUsernameTaken)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			r.errorResponse(w, err, ErrStoreUnavailable)
		}
		r.incCounter(RegisterErrorsTotal)
		return
	}

	r.incCounter(RegisterSuccessTotal)

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusCreated)
	r.encodeResponse(w, &dto.TokenResponseDTO{Token: token}, RegisterErrorsTotal)
}

// Login handles user login requests and returns a signed token.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	if !r.requirePostJSON(w, req) {
		return
	}

	r.incCounter(LoginRequestsTotal)

	loginRequest := &dto.LoginRequestDTO{}
	if !r.decodeAndValidate(w, req, loginRequest, LoginFailedTotal) {
		return
	}

	startTime := time.Now()
	token, err := r.AuthService.Login(req.Context(), loginRequest.Username, loginRequest.Password)
	r.observeHistogram(LoginDurationSeconds, time.Since(startTime).Seconds())
	if err != nil {
		// unknown user and wrong password are deliberately indistinguishable here
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			w.WriteHeader(http.StatusUnauthorized)
			r.errorResponse(w, err, ErrInvalidCredentials)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			r.errorResponse(w, err, ErrStoreUnavailable)
		}
		r.incCounter(LoginFailedTotal)
		return
	}

	r.incCounter(LoginSuccessTotal)

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	r.encodeResponse(w, &dto.TokenResponseDTO{Token: token}, LoginFailedTotal)
}

// Broadcast handles sends with no addressee.
func (r *Route) Broadcast(w http.ResponseWriter, req *http.Request) {
	if !r.requirePostJSON(w, req) {
		return
	}

	broadcastRequest := &dto.BroadcastRequestDTO{}
	if !r.decodeAndValidate(w, req, broadcastRequest, SendErrorsTotal) {
		return
	}

	r.send(w, req, messagerouter.SendRequest{Content: broadcastRequest.Content})
}

// Direct handles sends addressed to a single recipient.
func (r *Route) Direct(w http.ResponseWriter, req *http.Request) {
	if !r.requirePostJSON(w, req) {
		return
	}

	directRequest := &dto.DirectRequestDTO{}
	if !r.decodeAndValidate(w, req, directRequest, SendErrorsTotal) {
		return
	}

	r.send(w, req, messagerouter.SendRequest{
		Content:   directRequest.Content,
		Recipient: directRequest.Recipient,
	})
}

// Group handles sends addressed to a named group channel.
func (r *Route) Group(w http.ResponseWriter, req *http.Request) {
	if !r.requirePostJSON(w, req) {
		return
	}

	groupRequest := &dto.GroupRequestDTO{}
	if !r.decodeAndValidate(w, req, groupRequest, SendErrorsTotal) {
		return
	}

	r.send(w, req, messagerouter.SendRequest{
		Content: groupRequest.Content,
		GroupID: groupRequest.GroupID,
	})
}

// Messages returns every persisted message, unfiltered by caller.
func (r *Route) Messages(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	r.incCounter(ListRequestsTotal)

	startTime := time.Now()
	messages, err := r.Router.List(req.Context())
	r.observeHistogram(ListDurationSeconds, time.Since(startTime).Seconds())
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		r.errorResponse(w, err, ErrStoreUnavailable)
		r.incCounter(ListErrorsTotal)
		return
	}

	response := make([]dto.MessageDTO, 0, len(messages))
	for _, message := range messages {
		response = append(response, toMessageDTO(message))
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	r.encodeResponse(w, response, ListErrorsTotal)
}

// send runs the common tail of the three send routes: resolve the caller
// identity from the verified token, classify, persist, acknowledge.
func (r *Route) send(w http.ResponseWriter, req *http.Request, sendRequest messagerouter.SendRequest) {
	r.incCounter(SendRequestsTotal)

	sender, ok := middleware.IdentityFromContext(req.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, fmt.Errorf("no identity in request context"), ErrMissingIdentity)
		r.incCounter(SendErrorsTotal)
		return
	}

	startTime := time.Now()
	err := r.Router.Send(req.Context(), sender, sendRequest)
	r.observeHistogram(SendDurationSeconds, time.Since(startTime).Seconds())
	if err != nil {
		if errors.Is(err, messagerouter.ErrAmbiguousTarget) {
			w.WriteHeader(http.StatusBadRequest)
			r.errorResponse(w, err, ErrAmbiguousTarget)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			r.errorResponse(w, err, ErrStoreUnavailable)
		}
		r.incCounter(SendErrorsTotal)
		return
	}

	r.incCounter(SendSuccessTotal)

	// empty acknowledgment; sending is solely durable recording
	w.WriteHeader(http.StatusOK)
}

func (r *Route) requirePostJSON(w http.ResponseWriter, req *http.Request) bool {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return false
	}

	if req.Header.Get(ContentType) != ContentTypeJson {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid content-type: %s", req.Header.Get(ContentType)), ErrInvalidContentType)
		return false
	}

	return true
}

func (r *Route) decodeAndValidate(w http.ResponseWriter, req *http.Request, target interface{}, errorCounter string) bool {
	if err := json.NewDecoder(req.Body).Decode(target); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, err, ErrInvalidRequestBody)
		r.incCounter(errorCounter)
		return false
	}

	if err := r.validator.Struct(target); err != nil {
		errs := err.(structValidator.ValidationErrors)
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid request data: %s", errs), ErrValidationFailed)
		r.incCounter(errorCounter)
		return false
	}

	return true
}

func (r *Route) encodeResponse(w http.ResponseWriter, response interface{}, errorCounter string) {
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, ErrFailedToEncodeResponse)
		r.incCounter(errorCounter)
	}
}

func (r *Route) errorResponse(w http.ResponseWriter, err error, message string) {
	jsonResponse := map[string]string{
		"error":   err.Error(),
		"message": message,
	}
	_ = json.NewEncoder(w).Encode(jsonResponse)
}

func (r *Route) incCounter(name string) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(name)
	}
}

func (r *Route) observeHistogram(name string, value float64) {
	if r.Metrics != nil {
		r.Metrics.ObserveHistogram(name, value)
	}
}

func toMessageDTO(message models.Message) dto.MessageDTO {
	return dto.MessageDTO{
		ID:        message.ID,
		Sender:    message.Sender,
		Recipient: message.Recipient,
		GroupID:   message.GroupID,
		Content:   message.Content,
		Timestamp: message.Timestamp,
	}
}
