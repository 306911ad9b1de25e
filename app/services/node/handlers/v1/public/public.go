// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/validate"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new transaction to the pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nt NewTransaction
	if err := web.Decode(r, &nt); err != nil {
		if errors.Is(err, web.ErrContentType) {
			return errs.NewTrusted(err, http.StatusUnsupportedMediaType)
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(nt); err != nil {
		return err
	}

	index := h.State.SubmitTransaction(toTransaction(nt))

	resp := TransactionAccepted{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
		Index:   index,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Pending returns the transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := h.State.RetrievePool()
	if pool == nil {
		pool = []ledger.Transaction{}
	}

	resp := Pending{
		Transactions: pool,
		Length:       len(pool),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine solves the puzzle for the current tip and seals the pool into a new
// block. The request stays open until the block is forged.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineNewBlock(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return errs.NewTrusted(errors.New("mining cancelled"), http.StatusServiceUnavailable)
		}
		return fmt.Errorf("mining: %w", err)
	}

	resp := BlockForged{
		Message:        "New block forged",
		Index:          block.Index,
		Transactions:   block.Transactions,
		PuzzleSolution: block.PuzzleSolution,
		PreviousDigest: block.PreviousDigest,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns the full chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	resp := Chain{
		Chain:  chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Block returns the block at the specified index of the chain.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrustedf(http.StatusBadRequest, "invalid block index %q", web.Param(r, "index"))
	}

	chain := h.State.RetrieveChain()
	if index < 1 || index > uint64(len(chain)) {
		return errs.NewTrustedf(http.StatusNotFound, "block %d not found", index)
	}

	return web.Respond(ctx, w, chain[index-1], http.StatusOK)
}

// RegisterNodes adds the provided nodes to the set of known peers.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var rn RegisterNodes
	if err := web.Decode(r, &rn); err != nil {
		if errors.Is(err, web.ErrContentType) {
			return errs.NewTrusted(err, http.StatusUnsupportedMediaType)
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(rn); err != nil {
		return err
	}

	if _, err := h.State.RegisterPeers(rn.Nodes); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	peers := h.State.RetrieveKnownPeers()
	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}

	resp := NodesRegistered{
		Message:    "New nodes have been added",
		TotalNodes: hosts,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Resolve runs consensus against the known peers.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced := h.State.Resolve(ctx)

	resp := Resolved{
		Message:  "Our chain is authoritative",
		Replaced: replaced,
		Chain:    h.State.RetrieveChain(),
	}

	if replaced {
		resp.Message = "Our chain was replaced"
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
