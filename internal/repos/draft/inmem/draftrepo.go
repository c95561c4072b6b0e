// Package inmem provides a draft repository that holds the open event drafts in-memory
// A draft belongs to exactly one edit session; it is registered under an opaque token
// when editing begins and discarded on save, cancel or expiry
package inmem

import (
	"time"

	"github.com/google/uuid"

	"github.com/cwaldner/rostra/internal/draft"
	"github.com/cwaldner/rostra/internal/repos"
)

// draftRequest is a generic request that can be sent over one of the repo's channels to execute functions
// inside the control goroutine
type draftRequest struct {
	token  string
	d      draft.EventDraft
	answer chan<- draftResponse
}

// draftResponse is a generic response to a draft request that contains the answer to the request made
type draftResponse struct {
	token string
	d     *draft.EventDraft
	err   error
}

// an entry couples a draft with the time it was last touched
type entry struct {
	d         draft.EventDraft
	touchedAt time.Time
}

// DraftRepo is a draft repository that stores the open drafts in-memory
type DraftRepo struct {
	expiry time.Duration
	// create is a channel to trigger draft registration
	create chan<- draftRequest
	// get is a channel to request a draft by token
	get chan<- draftRequest
	// replace is a channel to store a new draft state under an existing token
	replace chan<- draftRequest
	// del is a channel to request a draft to be discarded
	del chan<- draftRequest
}

// New creates a new draft repository instance whose drafts expire after the given
// duration without being touched
func New(expiry time.Duration) *DraftRepo {
	repo := &DraftRepo{expiry: expiry}
	// Spin up the control goroutine
	c := make(chan draftRequest)
	g := make(chan draftRequest)
	r := make(chan draftRequest)
	d := make(chan draftRequest)
	go repo.control(c, g, r, d)
	repo.create = c
	repo.get = g
	repo.replace = r
	repo.del = d
	return repo
}

// control is the control goroutine that runs endlessly waiting for requests for managing drafts
func (r *DraftRepo) control(create <-chan draftRequest, get <-chan draftRequest, replace <-chan draftRequest, del <-chan draftRequest) {
	drafts := map[string]*entry{}
	// Purge channel to drop all expired drafts roughly once a minute
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	purge := ticker.C
	for {
		select {
		case req := <-create:
			token := uuid.New().String()
			drafts[token] = &entry{d: req.d, touchedAt: time.Now()}
			req.answer <- draftResponse{token: token}
		case req := <-get:
			en, ok := drafts[req.token]
			if !ok || r.expired(en) {
				delete(drafts, req.token)
				req.answer <- draftResponse{err: repos.ErrEntityNotExisting}
				break
			}
			en.touchedAt = time.Now()
			copy := en.d
			req.answer <- draftResponse{d: &copy}
		case req := <-replace:
			en, ok := drafts[req.token]
			if !ok || r.expired(en) {
				delete(drafts, req.token)
				req.answer <- draftResponse{err: repos.ErrEntityNotExisting}
				break
			}
			en.d = req.d
			en.touchedAt = time.Now()
			req.answer <- draftResponse{}
		case req := <-del:
			delete(drafts, req.token)
			req.answer <- draftResponse{}
		case <-purge:
			var toPurge []string
			for token, en := range drafts {
				if r.expired(en) {
					toPurge = append(toPurge, token)
				}
			}
			for _, token := range toPurge {
				delete(drafts, token)
			}
		}
	}
}

func (r *DraftRepo) expired(en *entry) bool {
	return time.Since(en.touchedAt) > r.expiry
}

func send(token string, d draft.EventDraft, channel chan<- draftRequest) draftResponse {
	answer := make(chan draftResponse)
	channel <- draftRequest{
		token:  token,
		d:      d,
		answer: answer,
	}
	return <-answer
}

// Create registers a new draft and returns the token it is reachable under
func (r *DraftRepo) Create(d draft.EventDraft) (string, error) {
	resp := send("", d, r.create)
	if resp.err != nil {
		return "", resp.err
	}
	return resp.token, nil
}

// Get returns the draft stored under the given token and marks it as touched
func (r *DraftRepo) Get(token string) (*draft.EventDraft, error) {
	resp := send(token, draft.EventDraft{}, r.get)
	if resp.err != nil {
		return nil, resp.err
	}
	return resp.d, nil
}

// Replace stores a new draft state under an existing token
func (r *DraftRepo) Replace(token string, d draft.EventDraft) error {
	resp := send(token, d, r.replace)
	return resp.err
}

// Delete discards the draft stored under the given token
func (r *DraftRepo) Delete(token string) error {
	resp := send(token, draft.EventDraft{}, r.del)
	return resp.err
}
