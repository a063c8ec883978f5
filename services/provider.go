package services

import (
	"errors"

	"github.com/bingolaperla/perla-backend/apperrors"
	"github.com/bingolaperla/perla-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameProvider is the single data-access seam for the game, card, wallet
// and payment services. Two implementations exist: DBProvider (gorm) and
// MemoryProvider (maps), chosen at construction time.
type GameProvider interface {
	// Users
	CreateUser(u *models.User) error
	GetUser(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)

	// Wallet. AdjustBalance applies a signed delta atomically and records
	// a ledger row with the balance after the write; a delta that would
	// take the balance negative fails with ValidationError.
	AdjustBalance(userID uint, delta float64, txType models.TransactionType, reference, description string) (*models.Transaction, error)
	Transactions(userID uint) ([]models.Transaction, error)

	// Games
	CreateGame(g *models.Game) error
	GetGame(id uint) (*models.Game, error)
	ListGames() ([]models.Game, error)
	SaveGame(g *models.Game) error
	// TransitionGame flips status only if the game is still in `from`,
	// reporting whether this caller won the write. This is the guard that
	// settles two bingo claims racing on one game.
	TransitionGame(id uint, from, to models.GameStatus) (bool, error)
	AddParticipant(gameID, userID uint) (bool, error)
	CountParticipants(gameID uint) (int64, error)

	// Cards. PurchaseCards debits the wallet and persists every card with
	// its cells in one transaction; on any failure nothing is kept.
	PurchaseCards(userID uint, total float64, reference, description string, cards []*models.Card) error
	CreateCard(card *models.Card) error
	GetCard(id uint) (*models.Card, error)
	ActiveCardsByGame(gameID uint) ([]*models.Card, error)
	CardsByUser(userID uint) ([]models.Card, error)
	CountUserCards(gameID, userID uint) (int64, error)
	MarkCell(cardID uint, position int) error
	SetCardWinner(cardID uint) error

	// Payments
	CreateDeposit(d *models.Deposit) error
	DepositByReference(ref string) (*models.Deposit, error)
	SaveDeposit(d *models.Deposit) error
	CreateWithdrawal(w *models.Withdrawal) error
	WithdrawalByReference(ref string) (*models.Withdrawal, error)
	SaveWithdrawal(w *models.Withdrawal) error
	// RecordPaymentEvent returns false when the event id was seen before.
	RecordPaymentEvent(e *models.PaymentEvent) (bool, error)
}

// DBProvider is the gorm-backed GameProvider.
type DBProvider struct {
	db *gorm.DB
}

func NewDBProvider(db *gorm.DB) *DBProvider {
	return &DBProvider{db: db}
}

func (p *DBProvider) CreateUser(u *models.User) error {
	return p.db.Create(u).Error
}

func (p *DBProvider) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := p.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("user %d not found", id)
		}
		return nil, err
	}
	return &user, nil
}

func (p *DBProvider) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := p.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("user %s not found", email)
		}
		return nil, err
	}
	return &user, nil
}

// adjustBalance is the shared balance write, run inside the caller's
// transaction.
func adjustBalance(tx *gorm.DB, userID uint, delta float64, txType models.TransactionType, reference, description string) (*models.Transaction, error) {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("user %d not found", userID)
		}
		return nil, err
	}

	next := user.PearlBalance + delta
	if next < 0 {
		return nil, apperrors.Validationf("insufficient balance: have %.2f, need %.2f", user.PearlBalance, -delta)
	}

	user.PearlBalance = next
	if err := tx.Save(&user).Error; err != nil {
		return nil, err
	}

	rec := &models.Transaction{
		UserID:       userID,
		Type:         txType,
		Amount:       delta,
		BalanceAfter: next,
		Reference:    reference,
		Description:  description,
	}
	if err := tx.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *DBProvider) AdjustBalance(userID uint, delta float64, txType models.TransactionType, reference, description string) (*models.Transaction, error) {
	var rec *models.Transaction
	err := p.db.Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = adjustBalance(tx, userID, delta, txType, reference, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *DBProvider) PurchaseCards(userID uint, total float64, reference, description string, cards []*models.Card) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if total != 0 {
			if _, err := adjustBalance(tx, userID, -total, models.CardPurchase, reference, description); err != nil {
				return err
			}
		}
		for _, card := range cards {
			if err := tx.Create(card).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *DBProvider) Transactions(userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := p.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&txs).Error
	return txs, err
}

func (p *DBProvider) CreateGame(g *models.Game) error {
	return p.db.Create(g).Error
}

func (p *DBProvider) GetGame(id uint) (*models.Game, error) {
	var game models.Game
	if err := p.db.First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("game %d not found", id)
		}
		return nil, err
	}
	return &game, nil
}

func (p *DBProvider) ListGames() ([]models.Game, error) {
	var games []models.Game
	err := p.db.Order("created_at DESC").Find(&games).Error
	return games, err
}

func (p *DBProvider) SaveGame(g *models.Game) error {
	return p.db.Save(g).Error
}

func (p *DBProvider) TransitionGame(id uint, from, to models.GameStatus) (bool, error) {
	res := p.db.Model(&models.Game{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (p *DBProvider) AddParticipant(gameID, userID uint) (bool, error) {
	res := p.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.GameParticipant{GameID: gameID, UserID: userID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (p *DBProvider) CountParticipants(gameID uint) (int64, error) {
	var n int64
	err := p.db.Model(&models.GameParticipant{}).Where("game_id = ?", gameID).Count(&n).Error
	return n, err
}

func (p *DBProvider) CreateCard(card *models.Card) error {
	return p.db.Create(card).Error
}

func (p *DBProvider) GetCard(id uint) (*models.Card, error) {
	var card models.Card
	if err := p.db.Preload("Cells", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("card %d not found", id)
		}
		return nil, err
	}
	return &card, nil
}

func (p *DBProvider) ActiveCardsByGame(gameID uint) ([]*models.Card, error) {
	var cards []*models.Card
	err := p.db.Preload("Cells", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("game_id = ? AND active = ?", gameID, true).Find(&cards).Error
	return cards, err
}

func (p *DBProvider) CardsByUser(userID uint) ([]models.Card, error) {
	var cards []models.Card
	err := p.db.Preload("Cells", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("user_id = ?", userID).Find(&cards).Error
	return cards, err
}

func (p *DBProvider) CountUserCards(gameID, userID uint) (int64, error) {
	var n int64
	err := p.db.Model(&models.Card{}).
		Where("game_id = ? AND user_id = ? AND active = ?", gameID, userID, true).
		Count(&n).Error
	return n, err
}

func (p *DBProvider) MarkCell(cardID uint, position int) error {
	return p.db.Model(&models.CardCell{}).
		Where("card_id = ? AND position = ?", cardID, position).
		Update("is_marked", true).Error
}

func (p *DBProvider) SetCardWinner(cardID uint) error {
	return p.db.Model(&models.Card{}).
		Where("id = ?", cardID).
		Update("is_winner", true).Error
}

func (p *DBProvider) CreateDeposit(d *models.Deposit) error {
	return p.db.Create(d).Error
}

func (p *DBProvider) DepositByReference(ref string) (*models.Deposit, error) {
	var dep models.Deposit
	if err := p.db.Where("reference = ?", ref).First(&dep).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("deposit %s not found", ref)
		}
		return nil, err
	}
	return &dep, nil
}

func (p *DBProvider) SaveDeposit(d *models.Deposit) error {
	return p.db.Save(d).Error
}

func (p *DBProvider) CreateWithdrawal(w *models.Withdrawal) error {
	return p.db.Create(w).Error
}

func (p *DBProvider) WithdrawalByReference(ref string) (*models.Withdrawal, error) {
	var wd models.Withdrawal
	if err := p.db.Where("reference = ?", ref).First(&wd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("withdrawal %s not found", ref)
		}
		return nil, err
	}
	return &wd, nil
}

func (p *DBProvider) SaveWithdrawal(w *models.Withdrawal) error {
	return p.db.Save(w).Error
}

func (p *DBProvider) RecordPaymentEvent(e *models.PaymentEvent) (bool, error) {
	res := p.db.Clauses(clause.OnConflict{DoNothing: true}).Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
