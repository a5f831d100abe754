package trading

import (
	"context"
	"fmt"
	"sync"
	"time"

	"verdra-backend/internal/models"
	"verdra-backend/internal/store"

	"github.com/shopspring/decimal"
)

// TradeInput is a validated trade request: amount of credits against the
// project's listed price, bought or sold in one atomic settlement. There is
// no order book, no partial fills, no proration.
type TradeInput struct {
	ProjectID int
	Amount    decimal.Decimal
	Type      string
}

// Service settles trades against the ledger store. Settlement for a given
// user is serialized with a per-user mutex: the balance check and the balance
// write must not interleave with another settlement on the same user, or a
// user could spend the same funds twice.
type Service struct {
	Store *store.Store

	locks sync.Map // user id -> *sync.Mutex
}

func (s *Service) userLock(userID int) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Settle validates the trade, applies the balance change and appends the
// ledger entry in one store transaction, and returns the created record.
// A failed settlement leaves balance and ledger untouched.
func (s *Service) Settle(ctx context.Context, userID int, in TradeInput) (*models.Credit, error) {
	if in.ProjectID == 0 || !in.Amount.IsPositive() {
		return nil, ErrMissingFields
	}
	if in.Type != models.TradeTypeBuy && in.Type != models.TradeTypeSell {
		return nil, ErrMissingFields
	}

	project, err := s.Store.GetProject(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	// Balance must be read inside the critical section, never from a session
	// snapshot, so concurrent requests see each other's settlements.
	user, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("settlement: user %d not found", userID)
	}

	// Money math stays decimal end to end; totals round half-even to 2 places.
	totalCost := in.Amount.Mul(project.Price).RoundBank(2)

	if in.Type == models.TradeTypeBuy && totalCost.GreaterThan(user.Balance) {
		return nil, ErrInsufficientBalance
	}

	var newBalance decimal.Decimal
	if in.Type == models.TradeTypeBuy {
		newBalance = user.Balance.Sub(totalCost)
	} else {
		newBalance = user.Balance.Add(totalCost)
	}
	newBalance = newBalance.RoundBank(2)

	var created *models.Credit
	err = s.Store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.UpdateUserBalance(ctx, userID, newBalance); err != nil {
			return err
		}
		credit, err := tx.CreateCredit(ctx, models.Credit{
			ProjectID: in.ProjectID,
			UserID:    userID,
			Amount:    in.Amount,
			Price:     project.Price,
			Type:      in.Type,
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		created = credit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
