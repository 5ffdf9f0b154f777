// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/eotlabs/staking-ledger/api/utils"
	"github.com/eotlabs/staking-ledger/balances"
	"github.com/eotlabs/staking-ledger/ledger"
	"github.com/eotlabs/staking-ledger/precompile"
	"github.com/eotlabs/staking-ledger/staker"
	"github.com/eotlabs/staking-ledger/staker/reverts"
	"github.com/eotlabs/staking-ledger/staking"
)

type Staking struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Staking {
	return &Staking{l}
}

func (s *Staking) handleGetCollators(w http.ResponseWriter, _ *http.Request) error {
	var list []Stake
	if err := s.ledger.View(func(st *staker.Staker) error {
		collators, err := st.CollatorList()
		if err != nil {
			return err
		}
		list = convertStakes(collators)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

func (s *Staking) handleGetSelected(w http.ResponseWriter, _ *http.Request) error {
	var list []Stake
	if err := s.ledger.View(func(st *staker.Staker) error {
		selected, err := st.SelectedCandidates()
		if err != nil {
			return err
		}
		list = convertStakes(selected)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

func (s *Staking) handleGetTotal(w http.ResponseWriter, _ *http.Request) error {
	var total *TotalStake
	if err := s.ledger.View(func(st *staker.Staker) error {
		t, err := st.TotalStake()
		if err != nil {
			return err
		}
		total = &TotalStake{Collators: t.Collators, Delegators: t.Delegators}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, total)
}

func (s *Staking) handleGetRound(w http.ResponseWriter, _ *http.Request) error {
	var r *Round
	if err := s.ledger.View(func(st *staker.Staker) error {
		info, err := st.Round()
		if err != nil || info == nil {
			return err
		}
		snap, err := st.RoundSnapshot(info.Current)
		if err != nil {
			return err
		}
		r = convertRound(info, snap)
		return nil
	}); err != nil {
		return err
	}
	if r == nil {
		return utils.NotFound(errors.New("no round started"))
	}
	return utils.WriteJSON(w, r)
}

func (s *Staking) handleGetCandidate(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseAccount(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var c *Candidate
	if err := s.ledger.View(func(st *staker.Staker) error {
		record, err := st.Candidate(id)
		if err != nil || record == nil {
			return err
		}
		total, err := record.Total()
		if err != nil {
			return err
		}
		c = convertCandidate(id, record, total)
		return nil
	}); err != nil {
		return err
	}
	if c == nil {
		return utils.NotFound(errors.New("candidate not found"))
	}
	return utils.WriteJSON(w, c)
}

func (s *Staking) handleGetDelegator(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseAccount(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var d *Delegator
	if err := s.ledger.View(func(st *staker.Staker) error {
		record, err := st.Delegator(id)
		if err != nil || record == nil {
			return err
		}
		total, err := record.Total()
		if err != nil {
			return err
		}
		d = convertDelegator(id, record, total)
		return nil
	}); err != nil {
		return err
	}
	if d == nil {
		return utils.NotFound(errors.New("delegator not found"))
	}
	return utils.WriteJSON(w, d)
}

func (s *Staking) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseAccount(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	acc := &Account{ID: id}
	if err := s.ledger.ViewBalances(func(b *balances.Balances) error {
		if acc.Free, err = b.FreeBalance(id); err != nil {
			return err
		}
		if acc.Usable, err = b.UsableBalance(id); err != nil {
			return err
		}
		locks, err := b.Locks(id)
		if err != nil {
			return err
		}
		acc.Locks = convertLocks(locks)
		return nil
	}); err != nil {
		return err
	}
	if err := s.ledger.View(func(st *staker.Staker) error {
		if acc.Active, err = st.ActiveStake(id); err != nil {
			return err
		}
		queue, err := st.Unstaking(id)
		if err != nil {
			return err
		}
		acc.Pending = convertQueue(queue)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (s *Staking) handleGetUnstaking(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseAccount(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var pending []Unstaking
	if err := s.ledger.View(func(st *staker.Staker) error {
		queue, err := st.Unstaking(id)
		if err != nil {
			return err
		}
		pending = convertQueue(queue)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, pending)
}

func (s *Staking) handleGetLocks(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseAccount(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var locks []Lock
	if err := s.ledger.ViewBalances(func(b *balances.Balances) error {
		list, err := b.Locks(id)
		if err != nil {
			return err
		}
		locks = convertLocks(list)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, locks)
}

func (s *Staking) handleGetMethods(w http.ResponseWriter, _ *http.Request) error {
	names := precompile.Methods()
	list := make([]Method, 0, len(names))
	for _, name := range names {
		m, err := precompile.Lookup(name)
		if err != nil {
			return err
		}
		list = append(list, Method{Name: m.Name(), View: m.View()})
	}
	return utils.WriteJSON(w, list)
}

func (s *Staking) handleCall(w http.ResponseWriter, req *http.Request) error {
	var call CallRequest
	if err := utils.ParseJSON(req.Body, &call); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var caller staking.AccountID
	if call.Caller != nil {
		caller = *call.Caller
	}

	result := &CallResult{Block: s.ledger.Block()}
	out, err := s.ledger.Execute(call.Method, caller, call.Args)
	switch {
	case err == nil:
		result.Result = out
	case reverts.IsRevertErr(err):
		result.Reverted = true
		result.Revert = reverts.KindOf(err).String()
		result.Error = err.Error()
	case errors.Is(err, precompile.ErrUnknownMethod):
		return utils.NotFound(err)
	case errors.Is(err, precompile.ErrInvalidArgs), errors.Is(err, ledger.ErrZeroCaller):
		return utils.BadRequest(err)
	default:
		return err
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/collators").
		Methods(http.MethodGet).
		Name("GET /staking/collators").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetCollators))
	sub.Path("/selected").
		Methods(http.MethodGet).
		Name("GET /staking/selected").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSelected))
	sub.Path("/total").
		Methods(http.MethodGet).
		Name("GET /staking/total").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTotal))
	sub.Path("/round").
		Methods(http.MethodGet).
		Name("GET /staking/round").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetRound))
	sub.Path("/candidates/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/candidates/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetCandidate))
	sub.Path("/delegators/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/delegators/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetDelegator))
	sub.Path("/accounts/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccount))
	sub.Path("/unstaking/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/unstaking/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetUnstaking))
	sub.Path("/locks/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/locks/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetLocks))
	sub.Path("/methods").
		Methods(http.MethodGet).
		Name("GET /staking/methods").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetMethods))
	sub.Path("/calls").
		Methods(http.MethodPost).
		Name("POST /staking/calls").
		HandlerFunc(utils.WrapHandlerFunc(s.handleCall))
}
