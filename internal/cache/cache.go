package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pmurley/capbot/internal/models"
)

const (
	freeAgentsKey  = "freeagents"
	ledgerPrefix   = "ledger:"
	proposalPrefix = "proposal:"
	parkedPrefix   = "parked:"
)

// Cache holds ledger snapshots, the free-agent pool and pending proposals.
// Ledgers are cloned on the way in and out so callers never share one.
type Cache struct {
	cache       *gocache.Cache
	duration    time.Duration
	proposalTTL time.Duration
}

func New(duration, proposalTTL time.Duration) *Cache {
	return &Cache{
		cache:       gocache.New(duration, duration*2),
		duration:    duration,
		proposalTTL: proposalTTL,
	}
}

func ledgerKey(team string) string {
	return ledgerPrefix + strings.ToUpper(team)
}

func (c *Cache) SetLedger(l *models.Ledger) {
	c.cache.Set(ledgerKey(l.TeamCode), l.Clone(), c.duration)
}

func (c *Cache) GetLedger(team string) (*models.Ledger, bool) {
	if l, found := c.cache.Get(ledgerKey(team)); found {
		return l.(*models.Ledger).Clone(), true
	}
	return nil, false
}

// InvalidateLedger drops a team's snapshot so the next read goes to the backend.
func (c *Cache) InvalidateLedger(team string) {
	c.cache.Delete(ledgerKey(team))
}

func (c *Cache) SetFreeAgents(agents []models.FreeAgentRecord) {
	c.cache.Set(freeAgentsKey, agents, c.duration)
}

func (c *Cache) GetFreeAgents() ([]models.FreeAgentRecord, bool) {
	if agents, found := c.cache.Get(freeAgentsKey); found {
		return agents.([]models.FreeAgentRecord), true
	}
	return nil, false
}

// SetProposal replaces any proposal the user already had pending.
func (c *Cache) SetProposal(user string, p models.Proposal) {
	c.cache.Set(proposalPrefix+user, p, c.proposalTTL)
}

func (c *Cache) GetProposal(user string) (models.Proposal, bool) {
	if p, found := c.cache.Get(proposalPrefix + user); found {
		return p.(models.Proposal), true
	}
	return models.Proposal{}, false
}

// TakeProposal returns and removes the user's pending proposal.
func (c *Cache) TakeProposal(user string) (models.Proposal, bool) {
	p, ok := c.GetProposal(user)
	if ok {
		c.cache.Delete(proposalPrefix + user)
	}
	return p, ok
}

// Park keeps a request that failed in transport until the user retries it.
// Only the latest parked request per team is kept.
func (c *Cache) Park(p models.Proposal) {
	c.cache.Set(parkedPrefix+strings.ToUpper(p.TeamCode), p, gocache.NoExpiration)
}

// Unpark returns and removes a team's parked request.
func (c *Cache) Unpark(team string) (models.Proposal, bool) {
	key := parkedPrefix + strings.ToUpper(team)
	if p, found := c.cache.Get(key); found {
		c.cache.Delete(key)
		return p.(models.Proposal), true
	}
	return models.Proposal{}, false
}

func (c *Cache) Flush() {
	c.cache.Flush()
}
