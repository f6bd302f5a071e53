// Package frontoffice runs roster transactions for teams against the league
// backend. Plans are made locally against the cached snapshot and only
// become the new snapshot once the backend accepts them.
package frontoffice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pmurley/capbot/internal/cache"
	"github.com/pmurley/capbot/internal/capengine"
	"github.com/pmurley/capbot/internal/models"
	"github.com/pmurley/capbot/internal/valuation"
	"github.com/pmurley/capbot/pkg/logger"
	"github.com/shopspring/decimal"
)

// Backend is the league service that owns the cap snapshots.
type Backend interface {
	TeamOutline(ctx context.Context, team string) (*models.Outline, error)
	UserTeam(ctx context.Context, username string) (string, error)
	FreeAgents(ctx context.Context) ([]models.FreeAgentRecord, error)
	SubmitTransaction(ctx context.Context, sub models.Submission) error
}

// Journal records commit outcomes.
type Journal interface {
	Record(entries ...models.JournalEntry) error
	ForTeam(team string, limit int) ([]models.JournalEntry, error)
}

// CommitHook is called after the backend accepts a transaction.
type CommitHook func(entry models.JournalEntry, l *models.Ledger)

type Options struct {
	SeasonYear int
	SalaryCap  decimal.Decimal
	TagLimit   int
}

type Desk struct {
	backend Backend
	cache   *cache.Cache
	journal Journal
	valuer  valuation.Model
	log     *logger.Logger
	opts    Options

	mu        sync.Mutex
	teamLocks map[string]*sync.Mutex
	hooks     []CommitHook

	now   func() time.Time
	newID func() string
}

func NewDesk(backend Backend, c *cache.Cache, journal Journal, valuer valuation.Model, log *logger.Logger, opts Options) *Desk {
	return &Desk{
		backend:   backend,
		cache:     c,
		journal:   journal,
		valuer:    valuer,
		log:       log,
		opts:      opts,
		teamLocks: make(map[string]*sync.Mutex),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// OnCommit registers a hook for accepted transactions.
func (d *Desk) OnCommit(hook CommitHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, hook)
}

func (d *Desk) lockTeam(team string) func() {
	d.mu.Lock()
	lock, ok := d.teamLocks[team]
	if !ok {
		lock = &sync.Mutex{}
		d.teamLocks[team] = lock
	}
	d.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func normalizeTeam(team string) (string, error) {
	team = strings.ToUpper(strings.TrimSpace(team))
	if team == "" {
		return "", models.Validationf("no team given")
	}
	return team, nil
}

// Ledger returns the cached snapshot for a team, loading it from the backend
// when there is none.
func (d *Desk) Ledger(ctx context.Context, team string) (*models.Ledger, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return nil, err
	}
	if l, ok := d.cache.GetLedger(team); ok {
		return l, nil
	}
	l, _, err := d.Refresh(ctx, team)
	return l, err
}

// Refresh reloads a team's snapshot from the backend and caches it.
func (d *Desk) Refresh(ctx context.Context, team string) (*models.Ledger, []models.Discrepancy, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return nil, nil, err
	}

	outline, err := d.backend.TeamOutline(ctx, team)
	if err != nil {
		return nil, nil, fmt.Errorf("loading outline for %s: %w", team, err)
	}

	l, discrepancies, err := models.ParseOutline(*outline, d.opts.SeasonYear, d.opts.SalaryCap, d.opts.TagLimit)
	if err != nil {
		return nil, nil, err
	}
	for _, disc := range discrepancies {
		d.log.With("team", team).Warn("cap hit mismatch: ", disc)
	}

	d.cache.SetLedger(l)
	d.log.With("team", team).Debug("loaded ", len(l.Contracts), " contracts, space ", models.FormatMoney(l.SpaceAvailable()))
	return l, discrepancies, nil
}

// UserTeam resolves the team a league user manages.
func (d *Desk) UserTeam(ctx context.Context, username string) (string, error) {
	return d.backend.UserTeam(ctx, username)
}

// FreeAgents returns the free-agent pool, loading it when not cached.
func (d *Desk) FreeAgents(ctx context.Context) ([]models.FreeAgentRecord, error) {
	if agents, ok := d.cache.GetFreeAgents(); ok {
		return agents, nil
	}
	agents, err := d.backend.FreeAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading free agents: %w", err)
	}
	d.cache.SetFreeAgents(agents)
	return agents, nil
}

// Valuer exposes the valuation model for display.
func (d *Desk) Valuer() valuation.Model {
	return d.valuer
}

// Preview plans an action against the cached snapshot only.
func (d *Desk) Preview(team string, req models.ActionRequest) (models.Impact, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return models.Impact{}, err
	}
	l, ok := d.cache.GetLedger(team)
	if !ok {
		return models.Impact{}, models.Preconditionf("no snapshot loaded for %s; refresh first", team)
	}
	action, err := d.ResolveAction(l, req)
	if err != nil {
		return models.Impact{}, err
	}
	return capengine.Preview(l, action)
}

// Propose previews an action and holds it for the user to confirm.
func (d *Desk) Propose(team, user string, req models.ActionRequest) (models.Proposal, error) {
	impact, err := d.Preview(team, req)
	if err != nil {
		return models.Proposal{}, err
	}
	p := models.Proposal{
		TeamCode:  strings.ToUpper(team),
		Request:   req,
		Impact:    impact,
		CreatedBy: user,
		CreatedAt: d.now(),
	}
	d.cache.SetProposal(user, p)
	return p, nil
}

// Confirm commits the user's pending proposal.
func (d *Desk) Confirm(ctx context.Context, user string) (*models.ActionResponse, error) {
	p, ok := d.cache.TakeProposal(user)
	if !ok {
		return nil, models.Preconditionf("you have no pending transaction; it may have expired")
	}
	return d.Commit(ctx, p.TeamCode, user, p.Request)
}

// Cancel drops the user's pending proposal.
func (d *Desk) Cancel(user string) (models.Proposal, bool) {
	return d.cache.TakeProposal(user)
}

// Pending returns the user's pending proposal.
func (d *Desk) Pending(user string) (models.Proposal, bool) {
	return d.cache.GetProposal(user)
}

// Commit plans an action, submits it and on acceptance stores the new
// snapshot. Domain outcomes come back as a response; a non-nil error means
// the ledger could not be loaded or the backend could not be reached, in
// which case the request is parked for Retry.
func (d *Desk) Commit(ctx context.Context, team, user string, req models.ActionRequest) (*models.ActionResponse, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return nil, err
	}
	unlock := d.lockTeam(team)
	defer unlock()

	l, err := d.Ledger(ctx, team)
	if err != nil {
		return nil, err
	}
	log := d.log.With("team", team).With("action", req.Action)

	action, err := d.ResolveAction(l, req)
	if err == nil {
		var next *models.Ledger
		var impact models.Impact
		next, impact, err = capengine.Apply(l, action)
		if err == nil {
			return d.submit(ctx, log, l, next, impact, user, req)
		}
	}

	log.Info("rejected locally: ", models.ReasonOf(err))
	return &models.ActionResponse{
		Snapshot:  l.Snapshot(),
		Status:    models.StatusRejected,
		Reason:    models.ReasonOf(err),
		ErrorKind: models.KindOf(err),
	}, nil
}

func (d *Desk) submit(ctx context.Context, log *logger.Logger, before, next *models.Ledger, impact models.Impact, user string, req models.ActionRequest) (*models.ActionResponse, error) {
	team := before.TeamCode
	sub := models.Submission{
		TransactionID: d.newID(),
		TeamCode:      team,
		SeasonYear:    before.SeasonYear,
		Request:       req,
		Impact:        impact,
		Snapshot:      next.Snapshot(),
		SubmittedAt:   d.now(),
	}

	err := d.backend.SubmitTransaction(ctx, sub)
	switch {
	case err == nil:
		d.cache.SetLedger(next)
		entry := d.record(sub, models.StatusCommitted, "", user)
		log.Info("committed ", impact.PlayerName, ", space now ", models.FormatMoney(impact.SpaceAfter))
		d.runHooks(entry, next)
		return &models.ActionResponse{
			TransactionID: sub.TransactionID,
			Snapshot:      sub.Snapshot,
			Impact:        &impact,
			Status:        models.StatusCommitted,
		}, nil

	case errors.Is(err, models.ErrConflict):
		d.cache.InvalidateLedger(team)
		d.record(sub, models.StatusConflict, models.ReasonOf(err), user)
		log.Warn("conflict with server, refetching: ", models.ReasonOf(err))

		resp := &models.ActionResponse{
			TransactionID: sub.TransactionID,
			Status:        models.StatusConflict,
			Reason:        models.ReasonOf(err),
			ErrorKind:     models.KindConflict,
		}
		if fresh, _, rerr := d.Refresh(ctx, team); rerr == nil {
			resp.Snapshot = fresh.Snapshot()
		} else {
			log.Error("refetch after conflict failed: ", rerr)
		}
		return resp, nil

	case errors.Is(err, models.ErrUnavailable):
		d.cache.Park(models.Proposal{TeamCode: team, Request: req, Impact: impact, CreatedBy: user, CreatedAt: d.now()})
		log.Error("backend unavailable, parked for retry: ", err)
		return nil, err

	default:
		d.record(sub, models.StatusRejected, models.ReasonOf(err), user)
		log.Info("rejected by server: ", models.ReasonOf(err))
		return &models.ActionResponse{
			TransactionID: sub.TransactionID,
			Snapshot:      before.Snapshot(),
			Impact:        &impact,
			Status:        models.StatusRejected,
			Reason:        models.ReasonOf(err),
			ErrorKind:     models.KindOf(err),
		}, nil
	}
}

// Retry resubmits a team's parked request, planned against the current snapshot.
func (d *Desk) Retry(ctx context.Context, team, user string) (*models.ActionResponse, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return nil, err
	}
	p, ok := d.cache.Unpark(team)
	if !ok {
		return nil, models.Preconditionf("%s has no transaction waiting to be retried", team)
	}
	return d.Commit(ctx, team, user, p.Request)
}

// Journal returns a team's most recent journal entries.
func (d *Desk) Journal(team string, limit int) ([]models.JournalEntry, error) {
	team, err := normalizeTeam(team)
	if err != nil {
		return nil, err
	}
	return d.journal.ForTeam(team, limit)
}

func (d *Desk) record(sub models.Submission, status models.ActionStatus, reason, user string) models.JournalEntry {
	entry := models.NewJournalEntry(sub.TransactionID, sub.TeamCode, sub.SeasonYear, sub.Impact, status, reason, user, d.now())
	if err := d.journal.Record(entry); err != nil {
		d.log.With("team", sub.TeamCode).Error("failed to record transaction: ", err)
	}
	return entry
}

func (d *Desk) runHooks(entry models.JournalEntry, l *models.Ledger) {
	d.mu.Lock()
	hooks := append([]CommitHook(nil), d.hooks...)
	d.mu.Unlock()

	for _, hook := range hooks {
		hook(entry, l.Clone())
	}
}
