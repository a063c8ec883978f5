package services

import (
	"sort"
	"sync"
	"time"

	"github.com/bingolaperla/perla-backend/apperrors"
	"github.com/bingolaperla/perla-backend/models"
)

// MemoryProvider is the in-memory GameProvider, used by tests and demo mode.
type MemoryProvider struct {
	mu sync.Mutex

	users        map[uint]*models.User
	games        map[uint]*models.Game
	cards        map[uint]*models.Card
	transactions []models.Transaction
	participants map[uint]map[uint]bool // gameID -> userID set
	deposits     map[string]*models.Deposit
	withdrawals  map[string]*models.Withdrawal
	events       map[string]*models.PaymentEvent

	nextUserID uint
	nextGameID uint
	nextCardID uint
	nextCellID uint
	nextTxID   uint
	nextRowID  uint
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		users:        make(map[uint]*models.User),
		games:        make(map[uint]*models.Game),
		cards:        make(map[uint]*models.Card),
		participants: make(map[uint]map[uint]bool),
		deposits:     make(map[string]*models.Deposit),
		withdrawals:  make(map[string]*models.Withdrawal),
		events:       make(map[string]*models.PaymentEvent),
	}
}

func copyUser(u *models.User) *models.User {
	out := *u
	return &out
}

func copyGame(g *models.Game) *models.Game {
	out := *g
	out.BallsJSON = append([]byte(nil), g.BallsJSON...)
	return &out
}

func copyCard(c *models.Card) *models.Card {
	out := *c
	out.Cells = make([]models.CardCell, len(c.Cells))
	copy(out.Cells, c.Cells)
	return &out
}

func (p *MemoryProvider) CreateUser(u *models.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextUserID++
	u.ID = p.nextUserID
	u.CreatedAt = time.Now()
	p.users[u.ID] = copyUser(u)
	return nil
}

func (p *MemoryProvider) GetUser(id uint) (*models.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[id]
	if !ok {
		return nil, apperrors.NotFoundf("user %d not found", id)
	}
	return copyUser(u), nil
}

func (p *MemoryProvider) GetUserByEmail(email string) (*models.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range p.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.NotFoundf("user %s not found", email)
}

// adjustBalanceLocked requires p.mu held.
func (p *MemoryProvider) adjustBalanceLocked(userID uint, delta float64, txType models.TransactionType, reference, description string) (*models.Transaction, error) {
	u, ok := p.users[userID]
	if !ok {
		return nil, apperrors.NotFoundf("user %d not found", userID)
	}

	next := u.PearlBalance + delta
	if next < 0 {
		return nil, apperrors.Validationf("insufficient balance: have %.2f, need %.2f", u.PearlBalance, -delta)
	}
	u.PearlBalance = next

	p.nextTxID++
	rec := models.Transaction{
		ID:           p.nextTxID,
		UserID:       userID,
		Type:         txType,
		Amount:       delta,
		BalanceAfter: next,
		Reference:    reference,
		Description:  description,
		CreatedAt:    time.Now(),
	}
	p.transactions = append(p.transactions, rec)
	return &rec, nil
}

func (p *MemoryProvider) AdjustBalance(userID uint, delta float64, txType models.TransactionType, reference, description string) (*models.Transaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.adjustBalanceLocked(userID, delta, txType, reference, description)
}

func (p *MemoryProvider) Transactions(userID uint) ([]models.Transaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.Transaction
	for i := len(p.transactions) - 1; i >= 0; i-- {
		if p.transactions[i].UserID == userID {
			out = append(out, p.transactions[i])
		}
	}
	return out, nil
}

func (p *MemoryProvider) CreateGame(g *models.Game) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextGameID++
	g.ID = p.nextGameID
	g.CreatedAt = time.Now()
	p.games[g.ID] = copyGame(g)
	return nil
}

func (p *MemoryProvider) GetGame(id uint) (*models.Game, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.games[id]
	if !ok {
		return nil, apperrors.NotFoundf("game %d not found", id)
	}
	return copyGame(g), nil
}

func (p *MemoryProvider) ListGames() ([]models.Game, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Game, 0, len(p.games))
	for _, g := range p.games {
		out = append(out, *copyGame(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p *MemoryProvider) SaveGame(g *models.Game) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.games[g.ID]; !ok {
		return apperrors.NotFoundf("game %d not found", g.ID)
	}
	g.UpdatedAt = time.Now()
	p.games[g.ID] = copyGame(g)
	return nil
}

func (p *MemoryProvider) TransitionGame(id uint, from, to models.GameStatus) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.games[id]
	if !ok {
		return false, apperrors.NotFoundf("game %d not found", id)
	}
	if g.Status != from {
		return false, nil
	}
	g.Status = to
	g.UpdatedAt = time.Now()
	return true, nil
}

func (p *MemoryProvider) AddParticipant(gameID, userID uint) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	set, ok := p.participants[gameID]
	if !ok {
		set = make(map[uint]bool)
		p.participants[gameID] = set
	}
	if set[userID] {
		return false, nil
	}
	set[userID] = true
	return true, nil
}

func (p *MemoryProvider) CountParticipants(gameID uint) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.participants[gameID])), nil
}

// createCardLocked requires p.mu held.
func (p *MemoryProvider) createCardLocked(card *models.Card) {
	p.nextCardID++
	card.ID = p.nextCardID
	card.CreatedAt = time.Now()
	for i := range card.Cells {
		p.nextCellID++
		card.Cells[i].ID = p.nextCellID
		card.Cells[i].CardID = card.ID
	}
	p.cards[card.ID] = copyCard(card)
}

func (p *MemoryProvider) PurchaseCards(userID uint, total float64, reference, description string, cards []*models.Card) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// debit first: a rejected debit leaves no cards behind
	if total != 0 {
		if _, err := p.adjustBalanceLocked(userID, -total, models.CardPurchase, reference, description); err != nil {
			return err
		}
	}
	for _, card := range cards {
		p.createCardLocked(card)
	}
	return nil
}

func (p *MemoryProvider) CreateCard(card *models.Card) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createCardLocked(card)
	return nil
}

func (p *MemoryProvider) GetCard(id uint) (*models.Card, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.cards[id]
	if !ok {
		return nil, apperrors.NotFoundf("card %d not found", id)
	}
	return copyCard(c), nil
}

func (p *MemoryProvider) ActiveCardsByGame(gameID uint) ([]*models.Card, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*models.Card
	for _, c := range p.cards {
		if c.GameID == gameID && c.Active {
			out = append(out, copyCard(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p *MemoryProvider) CardsByUser(userID uint) ([]models.Card, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.Card
	for _, c := range p.cards {
		if c.UserID == userID {
			out = append(out, *copyCard(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p *MemoryProvider) CountUserCards(gameID, userID uint) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var n int64
	for _, c := range p.cards {
		if c.GameID == gameID && c.UserID == userID && c.Active {
			n++
		}
	}
	return n, nil
}

func (p *MemoryProvider) MarkCell(cardID uint, position int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.cards[cardID]
	if !ok {
		return apperrors.NotFoundf("card %d not found", cardID)
	}
	for i := range c.Cells {
		if c.Cells[i].Position == position {
			c.Cells[i].IsMarked = true
			return nil
		}
	}
	return nil
}

func (p *MemoryProvider) SetCardWinner(cardID uint) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.cards[cardID]
	if !ok {
		return apperrors.NotFoundf("card %d not found", cardID)
	}
	c.IsWinner = true
	return nil
}

func (p *MemoryProvider) CreateDeposit(d *models.Deposit) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.deposits[d.Reference]; exists {
		return apperrors.Conflictf("deposit reference %s already exists", d.Reference)
	}
	p.nextRowID++
	d.ID = p.nextRowID
	d.CreatedAt = time.Now()
	cp := *d
	p.deposits[d.Reference] = &cp
	return nil
}

func (p *MemoryProvider) DepositByReference(ref string) (*models.Deposit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.deposits[ref]
	if !ok {
		return nil, apperrors.NotFoundf("deposit %s not found", ref)
	}
	cp := *d
	return &cp, nil
}

func (p *MemoryProvider) SaveDeposit(d *models.Deposit) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.deposits[d.Reference]; !ok {
		return apperrors.NotFoundf("deposit %s not found", d.Reference)
	}
	d.UpdatedAt = time.Now()
	cp := *d
	p.deposits[d.Reference] = &cp
	return nil
}

func (p *MemoryProvider) CreateWithdrawal(w *models.Withdrawal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.withdrawals[w.Reference]; exists {
		return apperrors.Conflictf("withdrawal reference %s already exists", w.Reference)
	}
	p.nextRowID++
	w.ID = p.nextRowID
	w.CreatedAt = time.Now()
	cp := *w
	p.withdrawals[w.Reference] = &cp
	return nil
}

func (p *MemoryProvider) WithdrawalByReference(ref string) (*models.Withdrawal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.withdrawals[ref]
	if !ok {
		return nil, apperrors.NotFoundf("withdrawal %s not found", ref)
	}
	cp := *w
	return &cp, nil
}

func (p *MemoryProvider) SaveWithdrawal(w *models.Withdrawal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.withdrawals[w.Reference]; !ok {
		return apperrors.NotFoundf("withdrawal %s not found", w.Reference)
	}
	w.UpdatedAt = time.Now()
	cp := *w
	p.withdrawals[w.Reference] = &cp
	return nil
}

func (p *MemoryProvider) RecordPaymentEvent(e *models.PaymentEvent) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, seen := p.events[e.EventID]; seen {
		return false, nil
	}
	p.nextRowID++
	e.ID = p.nextRowID
	e.CreatedAt = time.Now()
	cp := *e
	p.events[e.EventID] = &cp
	return true, nil
}
