// Package server implements `poet serve`'s HTTP verification API (gin),
// adapted from the teacher's internal/api: the same NewAPI/SetupRoutes
// shape, the same route-group layout, the same handler signature, with the
// teacher's cluster-node request handling replaced by a run of the
// statemanager/trace/parser pipeline per request. There is no cluster, no
// replication and no quorum here (spec.md §1 and §5 place multi-node
// consensus and cross-trace reordering in Non-goals) — one request runs one
// trace against one property, synchronously, on a single goroutine, and the
// result is kept in memory for a later status lookup.
package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/moraneus/PoET/internal/frontier"
	"github.com/moraneus/PoET/internal/parser"
	"github.com/moraneus/PoET/internal/statemanager"
	"github.com/moraneus/PoET/internal/trace"
)

// Run is the stored result of one submitted verification (spec.md §6's
// observation interface plus the run summary, persisted so GET /verify/:id can
// retrieve it after the fact — SPEC_FULL.md supplemented feature 3,
// find_state_by_frontier, is reachable through Find below).
type Run struct {
	ID      int                `json:"id"`
	Verdict bool               `json:"verdict"`
	Stats   statemanager.Stats `json:"stats"`
	Error   string             `json:"error,omitempty"`
	sm      *statemanager.StateManager
}

// API owns the in-memory run registry. Not a database: a verification
// service restart loses history, exactly as the teacher's in-memory
// store.Store does before its WAL is replayed — acceptable here since a run
// is always reproducible from its submitted trace+property.
type API struct {
	mu   sync.Mutex
	runs map[int]*Run
	next int
}

// NewAPI builds an empty run registry.
func NewAPI() *API {
	return &API{runs: make(map[int]*Run)}
}

// SetupRoutes wires the public endpoints onto r, mirroring the teacher's
// route-group-per-concern layout.
func (a *API) SetupRoutes(r *gin.Engine) {
	verify := r.Group("/verify")
	{
		verify.POST("", a.Submit)
		verify.GET("/:id", a.Status)
		verify.GET("/:id/frontier", a.FrontierByCut)
	}
}

// SubmitRequest is the request body for POST /verify: a property formula
// source and a trace file, inline rather than by path (a server has no
// access to the submitting client's filesystem).
type SubmitRequest struct {
	Property string `json:"property" binding:"required"`
	Trace    string `json:"trace" binding:"required"`
	Reduce   bool   `json:"reduce"`
}

// Submit parses property and trace, runs the full §4.3 protocol event by
// event, and stores the result under a new run id.
func (a *API) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	formula, err := parser.Parse(req.Property)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("property: %v", err)})
		return
	}

	tr, err := trace.Parse([]byte(req.Trace))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("trace: %v", err)})
		return
	}

	sm := statemanager.New(tr.Processes, formula, req.Reduce)
	var verdict bool
	var runErr error
	for _, e := range tr.Events {
		verdict, _, runErr = sm.OnEvent(e)
		if runErr != nil {
			break
		}
	}

	a.mu.Lock()
	a.next++
	id := a.next
	run := &Run{ID: id, Verdict: verdict, Stats: sm.Stats(), sm: sm}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	a.runs[id] = run
	a.mu.Unlock()

	c.JSON(http.StatusOK, run)
}

// Status returns the stored result for a previously submitted run.
func (a *API) Status(c *gin.Context) {
	run, ok := a.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, run)
}

// FrontierByCut exposes StateManager.Find (SPEC_FULL.md supplemented
// feature 3) over HTTP: ?cut=1,0,2 looks up the frontier at that exact cut,
// if one was ever materialized.
func (a *API) FrontierByCut(c *gin.Context) {
	run, ok := a.lookup(c)
	if !ok {
		return
	}
	cutParam := c.Query("cut")
	if cutParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cut query parameter"})
		return
	}
	cut, err := parseCut(cutParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, ok := run.sm.Find(cut)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no frontier at that cut"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cut":        []uint64(f.Cut),
		"props":      f.Props,
		"tombstoned": f.Tombstoned(),
	})
}

func (a *API) lookup(c *gin.Context) (*Run, bool) {
	var id int
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return nil, false
	}
	a.mu.Lock()
	run, ok := a.runs[id]
	a.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return nil, false
	}
	return run, true
}

func parseCut(s string) (frontier.Cut, error) {
	var cut frontier.Cut
	cur := ""
	flush := func() error {
		var v uint64
		if _, err := fmt.Sscanf(cur, "%d", &v); err != nil {
			return fmt.Errorf("invalid cut component %q", cur)
		}
		cut = append(cut, v)
		return nil
	}
	for _, r := range s {
		if r == ',' {
			if err := flush(); err != nil {
				return nil, err
			}
			cur = ""
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		if err := flush(); err != nil {
			return nil, err
		}
	}
	return cut, nil
}
