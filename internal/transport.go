package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cwaldner/rostra/internal/ctxhelper"
	"github.com/cwaldner/rostra/internal/draft"
	"github.com/cwaldner/rostra/internal/log"
	"github.com/cwaldner/rostra/internal/models"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/kardianos/osext"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	apiBasePath = "/api"
)

// Defines an error that defines the HTTP status that should be returned
type httpStatuser interface {
	Status() int
}

// Defines an error that returns a machine-readable error code
type errorCoder interface {
	ErrorCode() string
}

// Defines an error that contains a data field with additional information
type dataBearer interface {
	Data() interface{}
}

type errorResponse struct {
	basicResponse
	// The error code
	Error   string      `json:"error"`
	Message string      `json:"errorMessage"`
	Details interface{} `json:"errorDetails,omitempty"`
}

// MakeHTTPHandler creates the main HTTP handler for the Rostra service
func MakeHTTPHandler(
	ps PersonService,
	ts TransactionService,
	es EventService,
	ds DraftService,
	sServ SessionService,
	logger *logrus.Entry,
) http.Handler {
	r := mux.NewRouter()

	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
		httptransport.ServerBefore(makeContextInjector(logger)),
		httptransport.ServerBefore(makeSessionDecoder(sServ)),
	}

	// -- Person service -------------------------------
	{
		pEp := MakePersonEndpoints(ps)

		// List
		r.Methods(http.MethodGet).Path(apiBasePath + "/people").Handler(httptransport.NewServer(
			pEp.List,
			decodeSearchRequest,
			encodeJSONResponse,
			options...,
		))

		// Get
		r.Methods(http.MethodGet).Path(apiBasePath + "/people/{id:[0-9]+}").Handler(httptransport.NewServer(
			pEp.Get,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Create
		r.Methods(http.MethodPost).Path(apiBasePath + "/people").Handler(httptransport.NewServer(
			pEp.Create,
			decodePerson,
			encodeJSONResponse,
			options...,
		))

		// Update
		r.Methods(http.MethodPut).Path(apiBasePath + "/people/{id:[0-9]+}").Handler(httptransport.NewServer(
			pEp.Update,
			decodePersonUpdate,
			encodeJSONResponse,
			options...,
		))

		// Delete
		r.Methods(http.MethodDelete).Path(apiBasePath + "/people/{id:[0-9]+}").Handler(httptransport.NewServer(
			pEp.Delete,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Transaction service --------------------------
	{
		tEp := MakeTransactionEndpoints(ts)

		// ListByLog
		r.Methods(http.MethodGet).Path(apiBasePath + "/logs/{id:[0-9]+}/transactions").Handler(httptransport.NewServer(
			tEp.ListByLog,
			decodeTransactionListRequest,
			encodeJSONResponse,
			options...,
		))

		// Get
		r.Methods(http.MethodGet).Path(apiBasePath + "/transactions/{id:[0-9]+}").Handler(httptransport.NewServer(
			tEp.Get,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Create
		r.Methods(http.MethodPost).Path(apiBasePath + "/transactions").Handler(httptransport.NewServer(
			tEp.Create,
			decodeTransaction,
			encodeJSONResponse,
			options...,
		))

		// Update
		r.Methods(http.MethodPut).Path(apiBasePath + "/transactions/{id:[0-9]+}").Handler(httptransport.NewServer(
			tEp.Update,
			decodeTransactionUpdate,
			encodeJSONResponse,
			options...,
		))

		// Delete
		r.Methods(http.MethodDelete).Path(apiBasePath + "/transactions/{id:[0-9]+}").Handler(httptransport.NewServer(
			tEp.Delete,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Event service --------------------------------
	{
		evEp := MakeEventEndpoints(es)

		// List
		r.Methods(http.MethodGet).Path(apiBasePath + "/events").Handler(httptransport.NewServer(
			evEp.List,
			decodeSearchRequest,
			encodeJSONResponse,
			options...,
		))

		// Get
		r.Methods(http.MethodGet).Path(apiBasePath + "/events/{id:[0-9]+}").Handler(httptransport.NewServer(
			evEp.Get,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Update
		r.Methods(http.MethodPut).Path(apiBasePath + "/events/{id:[0-9]+}").Handler(httptransport.NewServer(
			evEp.Update,
			decodeEventUpdate,
			encodeJSONResponse,
			options...,
		))

		// Delete
		r.Methods(http.MethodDelete).Path(apiBasePath + "/events/{id:[0-9]+}").Handler(httptransport.NewServer(
			evEp.Delete,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Draft service --------------------------------
	{
		dEp := MakeDraftEndpoints(ds)
		draftPath := apiBasePath + "/drafts/{token}"

		// Open (from a persisted event)
		r.Methods(http.MethodPost).Path(apiBasePath + "/events/{id:[0-9]+}/draft").Handler(httptransport.NewServer(
			dEp.Open,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// OpenNew
		r.Methods(http.MethodPost).Path(apiBasePath + "/drafts").Handler(httptransport.NewServer(
			dEp.OpenNew,
			decodeDraftOpenNewRequest,
			encodeJSONResponse,
			options...,
		))

		// Get
		r.Methods(http.MethodGet).Path(draftPath).Handler(httptransport.NewServer(
			dEp.Get,
			decodeDraftToken,
			encodeJSONResponse,
			options...,
		))

		// Discard
		r.Methods(http.MethodDelete).Path(draftPath).Handler(httptransport.NewServer(
			dEp.Discard,
			decodeDraftToken,
			encodeJSONResponse,
			options...,
		))

		// Staff roster operations
		r.Methods(http.MethodPost).Path(draftPath + "/staff").Handler(httptransport.NewServer(
			dEp.AddStaffCandidate,
			decodeDraftPersonFromBody,
			encodeJSONResponse,
			options...,
		))
		r.Methods(http.MethodPost).Path(draftPath + "/staff/move").Handler(httptransport.NewServer(
			dEp.MoveStaff,
			decodeDraftMoveRequest,
			encodeJSONResponse,
			options...,
		))
		r.Methods(http.MethodPost).Path(draftPath + "/staff/remove").Handler(httptransport.NewServer(
			dEp.RemoveStaff,
			decodeDraftRemoveRequest,
			encodeJSONResponse,
			options...,
		))

		// Leader flags
		r.Methods(http.MethodPut).Path(draftPath + "/leaders/{personId:[0-9]+}").Handler(httptransport.NewServer(
			dEp.PromoteLeader,
			decodeDraftPersonFromPath,
			encodeJSONResponse,
			options...,
		))
		r.Methods(http.MethodDelete).Path(draftPath + "/leaders/{personId:[0-9]+}").Handler(httptransport.NewServer(
			dEp.DemoteLeader,
			decodeDraftPersonFromPath,
			encodeJSONResponse,
			options...,
		))
		r.Methods(http.MethodPut).Path(draftPath + "/primaryLeader").Handler(httptransport.NewServer(
			dEp.SetPrimaryLeader,
			decodeDraftPersonFromBody,
			encodeJSONResponse,
			options...,
		))

		// Participant roster operations
		r.Methods(http.MethodPost).Path(draftPath + "/participants").Handler(httptransport.NewServer(
			dEp.AddParticipantCandidate,
			decodeDraftPersonFromBody,
			encodeJSONResponse,
			options...,
		))
		r.Methods(http.MethodPost).Path(draftPath + "/participants/move").Handler(httptransport.NewServer(
			dEp.MoveParticipant,
			decodeDraftMoveRequest,
			encodeJSONResponse,
			options...,
		))
		r.Methods(http.MethodPost).Path(draftPath + "/participants/remove").Handler(httptransport.NewServer(
			dEp.RemoveParticipant,
			decodeDraftRemoveRequest,
			encodeJSONResponse,
			options...,
		))

		// Schedule
		r.Methods(http.MethodPut).Path(draftPath + "/schedule").Handler(httptransport.NewServer(
			dEp.SetSchedule,
			decodeDraftScheduleRequest,
			encodeJSONResponse,
			options...,
		))

		// Application windows
		r.Methods(http.MethodPut).Path(draftPath + "/windows/{role}/start").Handler(httptransport.NewServer(
			dEp.SetWindowStart,
			decodeDraftWindowRequest,
			encodeJSONResponse,
			options...,
		))
		r.Methods(http.MethodPut).Path(draftPath + "/windows/{role}/end").Handler(httptransport.NewServer(
			dEp.SetWindowEnd,
			decodeDraftWindowRequest,
			encodeJSONResponse,
			options...,
		))

		// Validate
		r.Methods(http.MethodPost).Path(draftPath + "/validate").Handler(httptransport.NewServer(
			dEp.Validate,
			decodeDraftToken,
			encodeJSONResponse,
			options...,
		))

		// Save
		r.Methods(http.MethodPost).Path(draftPath + "/save").Handler(httptransport.NewServer(
			dEp.Save,
			decodeDraftToken,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Session Service ------------------------------
	{
		sEp := MakeSessionEndpoints(sServ)

		// Login
		r.Methods(http.MethodPost).Path(apiBasePath + "/login").Handler(httptransport.NewServer(
			sEp.Login,
			decodeLoginRequest,
			encodeJSONResponse,
			options...,
		))

		// Logout
		r.Methods(http.MethodPost).Path(apiBasePath + "/logout").Handler(httptransport.NewServer(
			sEp.Logout,
			decodeSessionToken,
			encodeJSONResponse,
			options...,
		))

		// WhoAmI
		r.Methods(http.MethodGet).Path(apiBasePath + "/whoami").Handler(httptransport.NewServer(
			sEp.WhoAmI,
			decodeSessionToken,
			encodeJSONResponse,
			options...,
		))
	}

	// Simple alive answer for checking if HTTP can be reached
	r.Methods(http.MethodGet).Path("/alive").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		data := map[string]bool{"ok": true}
		json.NewEncoder(w).Encode(data)
	})

	// Plain file service for the UI serving everything from the "ui" folder right beside the application executable
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		panic(err)
	}
	uiDir := filepath.Join(execDir, "ui")
	r.Methods(http.MethodGet).PathPrefix("/").Handler(http.FileServer(http.Dir(uiDir)))

	return r
}

// decodeLoginRequest decodes a login request from the JSON body
func decodeLoginRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalJSON,
			fmt.Sprintf("Failed to decode JSON body: %v", err),
		)
	}
	return req, nil
}

// decodeSessionToken gets the session token from the call's context
func decodeSessionToken(ctx context.Context, r *http.Request) (request interface{}, err error) {
	session := ctxhelper.Session(ctx)
	if session == nil {
		return nil, MakeError(
			http.StatusBadRequest,
			ErrCodeNotLoggedIn,
			"You need an active session for this operation",
		)
	}
	return session.ID, nil
}

// decodePaginationRequest reads the pagination information from the request's query variables
func decodePaginationRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	val := r.URL.Query()
	pag := Pagination{
		Limit: 50,
	}
	if i, err := strconv.ParseUint(val.Get("offset"), 10, 64); err == nil {
		pag.Offset = uint(i)
	}
	if i, err := strconv.ParseUint(val.Get("limit"), 10, 64); err == nil {
		pag.Limit = uint(i)
	}
	return pag, nil
}

// decodeSearchRequest decodes the parameters of a search by checking the GET variables "search", "limit" and "offset"
func decodeSearchRequest(ctx context.Context, r *http.Request) (request interface{}, err error) {
	val := r.URL.Query()
	pag, _ := decodePaginationRequest(ctx, r)
	search := Search{
		Search:     val.Get("search"),
		Pagination: pag.(Pagination),
	}
	return search, nil
}

// getUintFromPath is a helper function that gets a uint from the given path variable
func getUintFromPath(varname string, r *http.Request) (uint, error) {
	errmsg := fmt.Sprintf("Value for '%s' is no valid unsigned integer", varname)
	vars := mux.Vars(r)
	str, ok := vars[varname]
	if !ok {
		return 0, MakeError(http.StatusBadRequest, ErrCodeInvalidUint, errmsg)
	}
	id, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, MakeError(http.StatusBadRequest, ErrCodeInvalidUint, errmsg)
	}
	return uint(id), nil
}

// Decodes an ID from the "id" path variable provided by GoRilla
func decodeIDFromPath(ctx context.Context, r *http.Request) (interface{}, error) {
	return getUintFromPath("id", r)
}

// decodeJSONBody is the common decoder for requests carrying a JSON payload
func decodeJSONBody(r *http.Request, into interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalJSON,
			fmt.Sprintf("Failed to decode JSON body: %v", err),
		)
	}
	return nil
}

// decodePerson tries to load a person object from the provided HTTP request's body
func decodePerson(_ context.Context, r *http.Request) (interface{}, error) {
	var p models.Person
	if err := decodeJSONBody(r, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// Decodes a person from an update request where the ID of the person is in the path
func decodePersonUpdate(ctx context.Context, r *http.Request) (interface{}, error) {
	p, err := decodePerson(ctx, r)
	if err != nil {
		return nil, err
	}
	id, err := getUintFromPath("id", r)
	if err != nil {
		return nil, err
	}
	ret := p.(models.Person)
	ret.ID = id
	return ret, nil
}

// decodeTransaction tries to load a transaction object from the provided HTTP request's body
func decodeTransaction(_ context.Context, r *http.Request) (interface{}, error) {
	var t models.Transaction
	if err := decodeJSONBody(r, &t); err != nil {
		return nil, err
	}
	return t, nil
}

// Decodes a transaction from an update request where the ID of the transaction is in the path
func decodeTransactionUpdate(ctx context.Context, r *http.Request) (interface{}, error) {
	t, err := decodeTransaction(ctx, r)
	if err != nil {
		return nil, err
	}
	id, err := getUintFromPath("id", r)
	if err != nil {
		return nil, err
	}
	ret := t.(models.Transaction)
	ret.ID = id
	return ret, nil
}

// Decodes a request for listing the transactions of a specific transaction log
func decodeTransactionListRequest(ctx context.Context, r *http.Request) (request interface{}, err error) {
	pag, _ := decodePaginationRequest(ctx, r)
	id, err := getUintFromPath("id", r)
	if err != nil {
		return nil, err
	}
	return TransactionListRequest{
		Pagination: pag.(Pagination),
		LogID:      id,
	}, nil
}

// decodeEventUpdate decodes an event from an update request where the ID of the event is in the path
func decodeEventUpdate(ctx context.Context, r *http.Request) (interface{}, error) {
	var ev models.Event
	if err := decodeJSONBody(r, &ev); err != nil {
		return nil, err
	}
	id, err := getUintFromPath("id", r)
	if err != nil {
		return nil, err
	}
	ev.ID = id
	return ev, nil
}

// decodeDraftOpenNewRequest decodes a request to open a draft for a new event
func decodeDraftOpenNewRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req draftOpenNewRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return nil, err
	}
	return req, nil
}

// getDraftToken reads the draft token from the "token" path variable
func getDraftToken(r *http.Request) (string, error) {
	vars := mux.Vars(r)
	token, ok := vars["token"]
	if !ok || token == "" {
		return "", MakeError(http.StatusBadRequest, ErrCodeRequiredFieldMissing, "Missing draft token")
	}
	return token, nil
}

// decodeDraftToken decodes a request that consists of nothing but the draft token
func decodeDraftToken(_ context.Context, r *http.Request) (interface{}, error) {
	return getDraftToken(r)
}

// decodeDraftPersonFromBody decodes a draft operation addressing the person given in the JSON body
func decodeDraftPersonFromBody(_ context.Context, r *http.Request) (interface{}, error) {
	token, err := getDraftToken(r)
	if err != nil {
		return nil, err
	}
	var body struct {
		PersonID uint `json:"personId"`
	}
	if err := decodeJSONBody(r, &body); err != nil {
		return nil, err
	}
	return draftPersonRequest{Token: token, PersonID: body.PersonID}, nil
}

// decodeDraftPersonFromPath decodes a draft operation addressing the person given in the path
func decodeDraftPersonFromPath(_ context.Context, r *http.Request) (interface{}, error) {
	token, err := getDraftToken(r)
	if err != nil {
		return nil, err
	}
	personID, err := getUintFromPath("personId", r)
	if err != nil {
		return nil, err
	}
	return draftPersonRequest{Token: token, PersonID: personID}, nil
}

// decodeDraftMoveRequest decodes a request to move a person between two roster categories
func decodeDraftMoveRequest(_ context.Context, r *http.Request) (interface{}, error) {
	token, err := getDraftToken(r)
	if err != nil {
		return nil, err
	}
	var move RosterMoveRequest
	if err := decodeJSONBody(r, &move); err != nil {
		return nil, err
	}
	return draftMoveRequest{Token: token, Move: move}, nil
}

// decodeDraftRemoveRequest decodes a request to remove a person from a roster category
func decodeDraftRemoveRequest(_ context.Context, r *http.Request) (interface{}, error) {
	token, err := getDraftToken(r)
	if err != nil {
		return nil, err
	}
	var entry RosterEntryRequest
	if err := decodeJSONBody(r, &entry); err != nil {
		return nil, err
	}
	return draftRemoveRequest{Token: token, Entry: entry}, nil
}

// decodeDraftScheduleRequest decodes a request replacing the session schedule of a draft
func decodeDraftScheduleRequest(_ context.Context, r *http.Request) (interface{}, error) {
	token, err := getDraftToken(r)
	if err != nil {
		return nil, err
	}
	var body struct {
		Sessions []draft.Session `json:"sessions"`
	}
	if err := decodeJSONBody(r, &body); err != nil {
		return nil, err
	}
	return draftScheduleRequest{Token: token, Sessions: body.Sessions}, nil
}

// decodeDraftWindowRequest decodes a request setting one boundary of an application window.
// A null value clears the boundary
func decodeDraftWindowRequest(_ context.Context, r *http.Request) (interface{}, error) {
	token, err := getDraftToken(r)
	if err != nil {
		return nil, err
	}
	vars := mux.Vars(r)
	role := strings.TrimSpace(vars["role"])
	var body struct {
		Value *time.Time `json:"value"`
	}
	if err := decodeJSONBody(r, &body); err != nil {
		return nil, err
	}
	return draftWindowRequest{Token: token, Role: role, Value: body.Value}, nil
}

// Encodes a typical JSON response
func encodeJSONResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

// Builds an error response based on the incoming error
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	if err == nil {
		panic("encodeError with nil error")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if st, ok := err.(httpStatuser); ok {
		w.WriteHeader(st.Status())
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}
	ret := errorResponse{
		basicResponse: basicResponse{false, nil},
		Message:       err.Error(),
		Error:         ErrCodeUnknown,
	}
	if cd, ok := err.(errorCoder); ok {
		ret.Error = cd.ErrorCode()
	}
	if db, ok := err.(dataBearer); ok {
		if data := db.Data(); data != nil {
			if err, ok := data.(error); ok {
				ret.Details = err.Error()
			} else {
				ret.Details = data
			}
		}
	}
	json.NewEncoder(w).Encode(&ret)
}

// makeSessionDecoder returns a function that is used in every HTTP call to decode the session used, if a session
// token is sent by the client
func makeSessionDecoder(s SessionService) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		token := strings.TrimSpace(r.Header.Get("token"))
		logger := ctxhelper.Logger(ctx)
		if token != "" {
			// Try to load the session's data
			sess, user, err := s.GetContents(ctx, token, true)
			if err != nil {
				logger.WithError(err).WithField(log.FldSession, token).Error("Failed to retrieve session information")
				return ctx
			}
			if sess == nil || user == nil {
				// Nobody logged in
				return ctx
			}
			ctx = context.WithValue(ctx, ctxhelper.KeySession, *sess)
			ctx = context.WithValue(ctx, ctxhelper.KeyUser, *user)
			ctx = context.WithValue(ctx, ctxhelper.KeyLogger, logger.WithFields(logrus.Fields{
				log.FldSession: sess.ID,
				log.FldUser:    user.ID,
			}))
		}
		return ctx
	}
}

func makeContextInjector(logger *logrus.Entry) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		return context.WithValue(ctx, ctxhelper.KeyLogger, logger)
	}
}
