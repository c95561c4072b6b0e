package internal

import (
	"fmt"
	"time"

	"github.com/cwaldner/rostra/internal/draft"
	"github.com/cwaldner/rostra/internal/models"
	"github.com/go-kit/kit/endpoint"
	"golang.org/x/net/context"
)

// PersonEndpoints is a collection of endpoints for working with the person service
type PersonEndpoints struct {
	List   endpoint.Endpoint
	Get    endpoint.Endpoint
	Create endpoint.Endpoint
	Update endpoint.Endpoint
	Delete endpoint.Endpoint
}

// TransactionEndpoints is a collection of endpoints for working with the transaction service
type TransactionEndpoints struct {
	ListByLog endpoint.Endpoint
	Get       endpoint.Endpoint
	Create    endpoint.Endpoint
	Update    endpoint.Endpoint
	Delete    endpoint.Endpoint
}

// EventEndpoints is a collection of endpoints for working with the event service
type EventEndpoints struct {
	List   endpoint.Endpoint
	Get    endpoint.Endpoint
	Update endpoint.Endpoint
	Delete endpoint.Endpoint
}

// DraftEndpoints is a collection of endpoints for working with the event draft service
type DraftEndpoints struct {
	Open                    endpoint.Endpoint
	OpenNew                 endpoint.Endpoint
	Get                     endpoint.Endpoint
	Discard                 endpoint.Endpoint
	MoveStaff               endpoint.Endpoint
	RemoveStaff             endpoint.Endpoint
	AddStaffCandidate       endpoint.Endpoint
	PromoteLeader           endpoint.Endpoint
	DemoteLeader            endpoint.Endpoint
	SetPrimaryLeader        endpoint.Endpoint
	MoveParticipant         endpoint.Endpoint
	RemoveParticipant       endpoint.Endpoint
	AddParticipantCandidate endpoint.Endpoint
	SetSchedule             endpoint.Endpoint
	SetWindowStart          endpoint.Endpoint
	SetWindowEnd            endpoint.Endpoint
	Validate                endpoint.Endpoint
	Save                    endpoint.Endpoint
}

// SessionEndpoints is a collection of endpoints for working with the session service
type SessionEndpoints struct {
	Login  endpoint.Endpoint
	Logout endpoint.Endpoint
	WhoAmI endpoint.Endpoint
}

// The base for all responses which always contains an "ok" property to show if the call was successful and a
// data element containing the result of the request
type basicResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data,omitempty"`
}

type pagingResponse struct {
	Rows uint        `json:"rows"`
	List interface{} `json:"list"`
}

// A request made when logging in
type loginRequest struct {
	User string `json:"user"`
	Pass string `json:"password"`
}

// A request to open a draft for a new, unpersisted event
type draftOpenNewRequest struct {
	Kind string `json:"kind"`
}

// A draft request that addresses a single person on one of the rosters
type draftPersonRequest struct {
	Token    string
	PersonID uint
}

// A draft request moving a person between two roster categories
type draftMoveRequest struct {
	Token string
	Move  RosterMoveRequest
}

// A draft request removing a person from a roster category
type draftRemoveRequest struct {
	Token string
	Entry RosterEntryRequest
}

// A draft request replacing the session schedule
type draftScheduleRequest struct {
	Token    string
	Sessions []draft.Session
}

// A draft request setting one boundary of an application window
type draftWindowRequest struct {
	Token string
	Role  string
	Value *time.Time
}

// -- People -----------------------------------------------------------------------------------------------------------

// MakePersonEndpoints builds the endpoints needed to communicate with the person service
func MakePersonEndpoints(s PersonService) PersonEndpoints {
	return PersonEndpoints{
		List:   EnsureUserLoggedIn(makeListPeopleEndpoint(s)),
		Get:    EnsureUserLoggedIn(makeGetPersonEndpoint(s)),
		Create: EnsureUserLoggedIn(makeCreatePersonEndpoint(s)),
		Update: EnsureUserLoggedIn(makeUpdatePersonEndpoint(s)),
		Delete: EnsureUserLoggedIn(makeDeletePersonEndpoint(s)),
	}
}

func makeListPeopleEndpoint(s PersonService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		se, ok := request.(Search)
		if !ok {
			return nil, fmt.Errorf("illegal search parameter")
		}
		list, numRows, err := s.List(ctx, &se)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, pagingResponse{numRows, list}}, nil
	}
}

func makeGetPersonEndpoint(s PersonService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal person ID")
		}
		p, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, p}, nil
	}
}

func makeCreatePersonEndpoint(s PersonService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		person, ok := request.(models.Person)
		if !ok {
			return nil, fmt.Errorf("illegal person parameter")
		}
		p, err := s.Create(ctx, &person)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, p}, nil
	}
}

func makeUpdatePersonEndpoint(s PersonService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		person, ok := request.(models.Person)
		if !ok {
			return nil, fmt.Errorf("illegal person parameter")
		}
		if err := s.Update(ctx, &person); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

func makeDeletePersonEndpoint(s PersonService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal person ID")
		}
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

// -- Transactions -----------------------------------------------------------------------------------------------------

// MakeTransactionEndpoints builds the endpoints needed to communicate with the transaction service
func MakeTransactionEndpoints(s TransactionService) TransactionEndpoints {
	return TransactionEndpoints{
		ListByLog: EnsureUserLoggedIn(makeListTransactionsEndpoint(s)),
		Get:       EnsureUserLoggedIn(makeGetTransactionEndpoint(s)),
		Create:    EnsureUserLoggedIn(makeCreateTransactionEndpoint(s)),
		Update:    EnsureUserLoggedIn(makeUpdateTransactionEndpoint(s)),
		Delete:    EnsureUserLoggedIn(makeDeleteTransactionEndpoint(s)),
	}
}

func makeListTransactionsEndpoint(s TransactionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(TransactionListRequest)
		if !ok {
			return nil, fmt.Errorf("illegal transaction list request")
		}
		list, numRows, err := s.ListByLog(ctx, &req)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, pagingResponse{numRows, list}}, nil
	}
}

func makeGetTransactionEndpoint(s TransactionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal transaction ID")
		}
		t, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, t}, nil
	}
}

func makeCreateTransactionEndpoint(s TransactionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		trans, ok := request.(models.Transaction)
		if !ok {
			return nil, fmt.Errorf("illegal transaction parameter")
		}
		t, err := s.Create(ctx, &trans)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, t}, nil
	}
}

func makeUpdateTransactionEndpoint(s TransactionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		trans, ok := request.(models.Transaction)
		if !ok {
			return nil, fmt.Errorf("illegal transaction parameter")
		}
		if err := s.Update(ctx, &trans); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

func makeDeleteTransactionEndpoint(s TransactionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal transaction ID")
		}
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

// -- Events -----------------------------------------------------------------------------------------------------------

// MakeEventEndpoints builds the endpoints needed to communicate with the event service
func MakeEventEndpoints(s EventService) EventEndpoints {
	return EventEndpoints{
		List:   EnsureUserLoggedIn(makeListEventsEndpoint(s)),
		Get:    EnsureUserLoggedIn(makeGetEventEndpoint(s)),
		Update: EnsureUserLoggedIn(makeUpdateEventEndpoint(s)),
		Delete: EnsureUserLoggedIn(makeDeleteEventEndpoint(s)),
	}
}

func makeListEventsEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		se, ok := request.(Search)
		if !ok {
			return nil, fmt.Errorf("illegal search parameter")
		}
		list, numRows, err := s.List(ctx, &se)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, pagingResponse{numRows, list}}, nil
	}
}

func makeGetEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal event ID")
		}
		ev, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, ev}, nil
	}
}

func makeUpdateEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		event, ok := request.(models.Event)
		if !ok {
			return nil, fmt.Errorf("illegal event parameter")
		}
		if err := s.Update(ctx, &event); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

func makeDeleteEventEndpoint(s EventService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal event ID")
		}
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

// -- Event drafts -----------------------------------------------------------------------------------------------------

// MakeDraftEndpoints builds the endpoints needed to communicate with the event draft service
func MakeDraftEndpoints(s DraftService) DraftEndpoints {
	return DraftEndpoints{
		Open:                    EnsureUserLoggedIn(makeOpenDraftEndpoint(s)),
		OpenNew:                 EnsureUserLoggedIn(makeOpenNewDraftEndpoint(s)),
		Get:                     EnsureUserLoggedIn(makeGetDraftEndpoint(s)),
		Discard:                 EnsureUserLoggedIn(makeDiscardDraftEndpoint(s)),
		MoveStaff:               EnsureUserLoggedIn(makeMoveStaffEndpoint(s)),
		RemoveStaff:             EnsureUserLoggedIn(makeRemoveStaffEndpoint(s)),
		AddStaffCandidate:       EnsureUserLoggedIn(makeAddStaffCandidateEndpoint(s)),
		PromoteLeader:           EnsureUserLoggedIn(makePromoteLeaderEndpoint(s)),
		DemoteLeader:            EnsureUserLoggedIn(makeDemoteLeaderEndpoint(s)),
		SetPrimaryLeader:        EnsureUserLoggedIn(makeSetPrimaryLeaderEndpoint(s)),
		MoveParticipant:         EnsureUserLoggedIn(makeMoveParticipantEndpoint(s)),
		RemoveParticipant:       EnsureUserLoggedIn(makeRemoveParticipantEndpoint(s)),
		AddParticipantCandidate: EnsureUserLoggedIn(makeAddParticipantCandidateEndpoint(s)),
		SetSchedule:             EnsureUserLoggedIn(makeSetScheduleEndpoint(s)),
		SetWindowStart:          EnsureUserLoggedIn(makeSetWindowStartEndpoint(s)),
		SetWindowEnd:            EnsureUserLoggedIn(makeSetWindowEndEndpoint(s)),
		Validate:                EnsureUserLoggedIn(makeValidateDraftEndpoint(s)),
		Save:                    EnsureUserLoggedIn(makeSaveDraftEndpoint(s)),
	}
}

func makeOpenDraftEndpoint(s DraftService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(uint)
		if !ok {
			return nil, fmt.Errorf("illegal event ID")
		}
		state, err := s.Open(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, state}, nil
	}
}

func makeOpenNewDraftEndpoint(s DraftService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(draftOpenNewRequest)
		if !ok {
			return nil, fmt.Errorf("illegal draft request")
		}
		state, err := s.OpenNew(ctx, req.Kind)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, state}, nil
	}
}

func makeGetDraftEndpoint(s DraftService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		token, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal draft token")
		}
		state, err := s.Get(ctx, token)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, state}, nil
	}
}

func makeDiscardDraftEndpoint(s DraftService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		token, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal draft token")
		}
		if err := s.Discard(ctx, token); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

// makeDraftStateEndpoint wraps one draft operation that yields a new draft state
func makeDraftStateEndpoint(op func(ctx context.Context, req interface{}) (*DraftState, error)) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		state, err := op(ctx, request)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, state}, nil
	}
}

func makeMoveStaffEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftMoveRequest)
		if !ok {
			return nil, fmt.Errorf("illegal roster move request")
		}
		return s.MoveStaff(ctx, req.Token, &req.Move)
	})
}

func makeRemoveStaffEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftRemoveRequest)
		if !ok {
			return nil, fmt.Errorf("illegal roster entry request")
		}
		return s.RemoveStaff(ctx, req.Token, &req.Entry)
	})
}

func makeAddStaffCandidateEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftPersonRequest)
		if !ok {
			return nil, fmt.Errorf("illegal roster person request")
		}
		return s.AddStaffCandidate(ctx, req.Token, req.PersonID)
	})
}

func makePromoteLeaderEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftPersonRequest)
		if !ok {
			return nil, fmt.Errorf("illegal roster person request")
		}
		return s.PromoteLeader(ctx, req.Token, req.PersonID)
	})
}

func makeDemoteLeaderEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftPersonRequest)
		if !ok {
			return nil, fmt.Errorf("illegal roster person request")
		}
		return s.DemoteLeader(ctx, req.Token, req.PersonID)
	})
}

func makeSetPrimaryLeaderEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftPersonRequest)
		if !ok {
			return nil, fmt.Errorf("illegal roster person request")
		}
		return s.SetPrimaryLeader(ctx, req.Token, req.PersonID)
	})
}

func makeMoveParticipantEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftMoveRequest)
		if !ok {
			return nil, fmt.Errorf("illegal roster move request")
		}
		return s.MoveParticipant(ctx, req.Token, &req.Move)
	})
}

func makeRemoveParticipantEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftRemoveRequest)
		if !ok {
			return nil, fmt.Errorf("illegal roster entry request")
		}
		return s.RemoveParticipant(ctx, req.Token, &req.Entry)
	})
}

func makeAddParticipantCandidateEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftPersonRequest)
		if !ok {
			return nil, fmt.Errorf("illegal roster person request")
		}
		return s.AddParticipantCandidate(ctx, req.Token, req.PersonID)
	})
}

func makeSetScheduleEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftScheduleRequest)
		if !ok {
			return nil, fmt.Errorf("illegal schedule request")
		}
		return s.SetSchedule(ctx, req.Token, req.Sessions)
	})
}

func makeSetWindowStartEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftWindowRequest)
		if !ok {
			return nil, fmt.Errorf("illegal window request")
		}
		return s.SetWindowStart(ctx, req.Token, req.Role, req.Value)
	})
}

func makeSetWindowEndEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		req, ok := request.(draftWindowRequest)
		if !ok {
			return nil, fmt.Errorf("illegal window request")
		}
		return s.SetWindowEnd(ctx, req.Token, req.Role, req.Value)
	})
}

func makeValidateDraftEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		token, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal draft token")
		}
		return s.Validate(ctx, token)
	})
}

func makeSaveDraftEndpoint(s DraftService) endpoint.Endpoint {
	return makeDraftStateEndpoint(func(ctx context.Context, request interface{}) (*DraftState, error) {
		token, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal draft token")
		}
		return s.Save(ctx, token)
	})
}

// -- Sessions ---------------------------------------------------------------------------------------------------------

// MakeSessionEndpoints builds the endpoints needed to communicate with the session service
func MakeSessionEndpoints(s SessionService) SessionEndpoints {
	return SessionEndpoints{
		Login:  makeLoginEndpoint(s),
		Logout: makeLogoutEndpoint(s),
		WhoAmI: makeWhoAmIEndpoint(s),
	}
}

func makeLoginEndpoint(s SessionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		se, ok := request.(loginRequest)
		if !ok {
			return nil, fmt.Errorf("illegal login request")
		}
		si, err := s.Login(ctx, se.User, se.Pass)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, si}, nil
	}
}

func makeLogoutEndpoint(s SessionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal session token")
		}
		if err := s.Logout(ctx, id); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

func makeWhoAmIEndpoint(s SessionService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal session token")
		}
		si, err := s.WhoAmI(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, si}, nil
	}
}
