// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/api/utils"
	"github.com/eotlabs/staking-ledger/ledger"
	"github.com/eotlabs/staking-ledger/staker"
)

// Block describes the head of the ledger.
type Block struct {
	Number     uint32 `json:"number"`
	Round      uint32 `json:"round"`
	RoundFirst uint32 `json:"roundFirst"`
}

// AdvanceRequest moves the head, either by a count of blocks or to a block.
type AdvanceRequest struct {
	Advance *uint32 `json:"advance,omitempty"`
	To      *uint32 `json:"to,omitempty"`
}

// MaxAdvance bounds the blocks a single request may move the head by.
const MaxAdvance = 100_000

type Node struct {
	ledger   *ledger.Ledger
	readOnly bool
}

// New creates the node api. A read only node refuses to move the head.
func New(l *ledger.Ledger, readOnly bool) *Node {
	return &Node{l, readOnly}
}

func (n *Node) block() (*Block, error) {
	b := &Block{Number: n.ledger.Block()}
	err := n.ledger.View(func(s *staker.Staker) error {
		info, err := s.Round()
		if err != nil || info == nil {
			return err
		}
		b.Round, b.RoundFirst = info.Current, info.First
		return nil
	})
	return b, err
}

func (n *Node) handleGetBlock(w http.ResponseWriter, _ *http.Request) error {
	b, err := n.block()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, b)
}

func (n *Node) handlePostBlock(w http.ResponseWriter, req *http.Request) error {
	if n.readOnly {
		return utils.HTTPError(errors.New("head is driven by the node"), http.StatusForbidden)
	}
	var body AdvanceRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	var err error
	switch {
	case body.Advance != nil && body.To != nil:
		return utils.BadRequest(errors.New("advance and to are exclusive"))
	case body.Advance != nil:
		if *body.Advance > MaxAdvance {
			return utils.BadRequest(errors.Errorf("advance: at most %d blocks", MaxAdvance))
		}
		_, err = n.ledger.Advance(*body.Advance)
	case body.To != nil:
		if uint64(*body.To) > uint64(n.ledger.Block())+MaxAdvance {
			return utils.BadRequest(errors.Errorf("to: at most %d blocks ahead", MaxAdvance))
		}
		_, err = n.ledger.AdvanceTo(*body.To)
	default:
		return utils.BadRequest(errors.New("advance or to required"))
	}
	if err != nil {
		return utils.BadRequest(err)
	}
	return n.handleGetBlock(w, req)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/block").
		Methods(http.MethodGet).
		Name("GET /node/block").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetBlock))
	sub.Path("/block").
		Methods(http.MethodPost).
		Name("POST /node/block").
		HandlerFunc(utils.WrapHandlerFunc(n.handlePostBlock))
}
