package ledger

import (
	"errors"
	"time"

	"task_rewards/internal/domain"
	"task_rewards/internal/utils"

	"gorm.io/gorm"
)

// ChangeTypeRecharge marks an admin balance change as a user-initiated
// recharge. Only recharges trigger the pending-record sweep.
const ChangeTypeRecharge = "userrecharge"

// Registration defaults
const (
	startingBalance      = 15.0
	defaultAssignedTasks = 40
	referralCodeLength   = 6
	withdrawalFeeRate    = 0.02
	processingDelay      = time.Hour
)

// Engine applies all balance mutations and record-status transitions.
// Every mutating operation on a user runs inside a single-user
// transaction; known-delta balance changes use atomic increments.
type Engine struct {
	db *gorm.DB
}

// New returns a ledger engine bound to the given database
func New(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// DB exposes the underlying handle for read-only queries
func (e *Engine) DB() *gorm.DB {
	return e.db
}

// RegisterParams are the fields accepted at registration
type RegisterParams struct {
	Username           string
	Email              string
	PhoneNumber        string
	Password           string
	WithdrawalPassword string
	ParentCode         string // Referrer's code, stored as parentId
}

// Register creates a new user account. Fails with ErrConflict when the
// username or email is already taken. The sequence id is minted before
// the insert and is not returned to the counter if the insert fails.
func (e *Engine) Register(p RegisterParams) (*domain.User, error) {
	var existing domain.User
	err := e.db.Where("username = ? OR email = ?", p.Username, p.Email).First(&existing).Error
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	seq, err := NextSequence(e.db, SeqUserID)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		SequenceID:         seq,
		Username:           p.Username,
		Email:              p.Email,
		PhoneNumber:        p.PhoneNumber,
		Password:           hash,
		WithdrawalPassword: p.WithdrawalPassword,
		ParentID:           p.ParentCode,
		Code:               utils.RandomCode(referralCodeLength),
		Balance:            startingBalance,
		Clicks:             0,
		AssignedTasks:      defaultAssignedTasks,
		CreditScore:        100,
	}
	if err := e.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies a user's login password and returns the account
func (e *Engine) Authenticate(username, password string) (*domain.User, error) {
	var user domain.User
	if err := e.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthFailed
		}
		return nil, err
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, ErrAuthFailed
	}
	return &user, nil
}

// ClickSummary is returned after a successful order grab
type ClickSummary struct {
	Clicks      int     `json:"clicks"`
	Balance     float64 `json:"balance"`
	TodayProfit float64 `json:"todayProfit"`
	TotalProfit float64 `json:"totalProfit"`
}

// RecordClick processes one order grab for a user:
//   - fails with ErrLimitExceeded when clicks have reached assignedTasks,
//     leaving state unchanged
//   - at or past the fixedTask threshold, snapshots the balance into
//     prevBalance and debits cardItem (the forced purchase task)
//   - if the balance is then negative the order is held: a pending
//     UserRecord is created and no profit is applied. The gate is the
//     current balance sign, not the projected sign, so every later click
//     stays held until a recharge settles the account
//   - otherwise a completed UserRecord is created and profit is added to
//     balance, todayProfit and totalProfit
func (e *Engine) RecordClick(userID uint, songName string, totalAmount, profit float64) (*ClickSummary, error) {
	var summary ClickSummary
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.Clicks >= user.AssignedTasks {
			return ErrLimitExceeded
		}

		user.Clicks++

		// Forced purchase: applies on every click at or past the threshold
		if user.FixedTask > 0 && user.Clicks >= user.FixedTask {
			user.PrevBalance = user.Balance
			user.Balance -= user.CardItem
		}

		record := domain.UserRecord{
			SongName:    songName,
			TotalAmount: totalAmount,
			Profit:      profit,
			UserID:      user.ID,
		}
		if user.Balance < 0 {
			record.Status = domain.RecordPending // Order held, profit withheld
		} else {
			record.Status = domain.RecordCompleted
			user.Balance += profit
			user.TodayProfit += profit
			user.TotalProfit += profit
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		summary = ClickSummary{
			Clicks:      user.Clicks,
			Balance:     user.Balance,
			TodayProfit: user.TodayProfit,
			TotalProfit: user.TotalProfit,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// UpdateAmount applies an admin recharge or deduction to a user's balance.
// The delta is applied with an atomic increment. When a recharge brings
// the balance above zero, all pending records are settled: each record's
// profit is added to the balance, the prevBalance snapshot is restored
// once for the whole sweep, todayProfit resets and the records complete.
func (e *Engine) UpdateAmount(username string, changeAmount float64, changeType string) (*domain.User, error) {
	delta := changeAmount
	if changeType != ChangeTypeRecharge {
		delta = -changeAmount
	}

	var user domain.User
	err := e.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.User{}).
			Where("username = ?", username).
			Update("balance", gorm.Expr("balance + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			return err
		}

		if user.Balance > 0 && changeType == ChangeTypeRecharge {
			user.FixedTask = 0 // The forced purchase is cleared once the user recharges

			var pending []domain.UserRecord
			if err := tx.Where("user_id = ? AND status = ?", user.ID, domain.RecordPending).
				Find(&pending).Error; err != nil {
				return err
			}
			if len(pending) > 0 {
				for _, rec := range pending {
					user.Balance += rec.Profit
				}
				// The snapshot is restored once per sweep, not once per record
				user.Balance += user.PrevBalance
				user.TodayProfit = 0
				if err := tx.Model(&domain.UserRecord{}).
					Where("user_id = ? AND status = ?", user.ID, domain.RecordPending).
					Update("status", domain.RecordCompleted).Error; err != nil {
					return err
				}
			}
			if err := tx.Save(&user).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RequestWithdrawal validates a payout request and, on success, debits the
// requested amount immediately and creates a Pending withdrawal. The
// handling fee is informational and is not debited separately.
func (e *Engine) RequestWithdrawal(userID uint, withdrawalPassword string, amount float64) (*domain.Withdrawal, error) {
	var withdrawal domain.Withdrawal
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if withdrawalPassword != user.WithdrawalPassword {
			return ErrAuthFailed
		}
		if amount <= 0 {
			return ErrInvalidAmount
		}
		if amount > user.Balance {
			return ErrInsufficientFunds
		}

		now := time.Now()
		withdrawal = domain.Withdrawal{
			TransactionID:   utils.GenerateTransactionID(),
			UserID:          user.ID,
			Username:        user.Username,
			PhoneNumber:     user.PhoneNumber,
			RequestedAmount: amount,
			Balance:         user.Balance,
			HandlingFee:     amount * withdrawalFeeRate,
			Network:         user.Network,
			Wallet:          user.Wallet,
			ProcessingTime:  now.Add(processingDelay),
			Status:          domain.WithdrawalPending,
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			return err
		}
		return tx.Model(&user).
			Update("balance", gorm.Expr("balance - ?", amount)).Error
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// ResolveWithdrawal moves a withdrawal to a new status. Rejection refunds
// the requested amount to the user's balance; approval has no balance
// effect because the debit already happened at request time.
func (e *Engine) ResolveWithdrawal(withdrawalID uint, newStatus string) (*domain.Withdrawal, error) {
	switch newStatus {
	case domain.WithdrawalPending, domain.WithdrawalApproved, domain.WithdrawalRejected:
	default:
		return nil, ErrInvalidStatus
	}

	var withdrawal domain.Withdrawal
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&withdrawal, withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&withdrawal).Update("status", newStatus).Error; err != nil {
			return err
		}
		if newStatus == domain.WithdrawalRejected {
			return tx.Model(&domain.User{}).
				Where("id = ?", withdrawal.UserID).
				Update("balance", gorm.Expr("balance + ?", withdrawal.RequestedAmount)).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// CreateRecharge records a deposit request. The balance is untouched:
// recharges are reconciled manually through the admin updateAmount path.
func (e *Engine) CreateRecharge(userID uint, username, phoneNumber string, amount float64) (*domain.RechargeRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	now := time.Now()
	req := domain.RechargeRequest{
		TransactionID:     utils.GenerateTransactionID(),
		UserID:            userID,
		Username:          username,
		PhoneNumber:       phoneNumber,
		TransactionAmount: amount,
		ProcessingTime:    now.Add(processingDelay),
	}
	if err := e.db.Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ChangePassword verifies the old login password and stores a new hash
func (e *Engine) ChangePassword(username, oldPassword, newPassword string) error {
	var user domain.User
	if err := e.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !utils.CheckPassword(user.Password, oldPassword) {
		return ErrAuthFailed
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return e.db.Model(&user).Update("password", hash).Error
}

// ChangeWithdrawalPassword verifies the old payout secret and replaces it
func (e *Engine) ChangeWithdrawalPassword(userID uint, oldPassword, newPassword string) error {
	var user domain.User
	if err := e.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if oldPassword != user.WithdrawalPassword {
		return ErrAuthFailed
	}
	return e.db.Model(&user).Update("withdrawal_password", newPassword).Error
}

// SetPassword lets an admin overwrite a user's login password
func (e *Engine) SetPassword(username, newPassword string) error {
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return e.updateByUsername(username, map[string]any{"password": hash})
}

// SetWithdrawalPassword lets an admin overwrite a user's payout secret
func (e *Engine) SetWithdrawalPassword(username, newPassword string) error {
	return e.updateByUsername(username, map[string]any{"withdrawal_password": newPassword})
}

// SetCreditScore updates a user's credit score, clamped to 100
func (e *Engine) SetCreditScore(username string, score int) error {
	if score > 100 {
		score = 100
	}
	return e.updateByUsername(username, map[string]any{"credit_score": score})
}

// ResetTasks sets a user's click counter back to zero
func (e *Engine) ResetTasks(username string) error {
	return e.updateByUsername(username, map[string]any{"clicks": 0})
}

// DisableUser marks a user's account as disabled
func (e *Engine) DisableUser(username string) error {
	return e.updateByUsername(username, map[string]any{"status": true})
}

// CardOrderParams carries the optional card-order fields; nil means keep
type CardOrderParams struct {
	Commission *float64
	CardItem   *float64
	FixedTask  *int
	CardName   *string
}

// SetCardOrder updates the forced-purchase configuration for a user
func (e *Engine) SetCardOrder(username string, p CardOrderParams) error {
	updates := map[string]any{}
	if p.Commission != nil {
		updates["commission"] = *p.Commission
	}
	if p.CardItem != nil {
		updates["card_item"] = *p.CardItem
	}
	if p.FixedTask != nil {
		updates["fixed_task"] = *p.FixedTask
	}
	if p.CardName != nil {
		updates["card_name"] = *p.CardName
	}
	if len(updates) == 0 {
		return nil
	}
	return e.updateByUsername(username, updates)
}

// UserUpdate is the allow-list of fields a partial update may touch.
// Anything not listed here is ignored by design.
type UserUpdate struct {
	Email           *string  `json:"email"`
	PhoneNumber     *string  `json:"phoneNumber"`
	MembershipLevel *string  `json:"membershipLevel"`
	TradingStatus   *string  `json:"tradingStatus"`
	IsProxy         *string  `json:"isProxy"`
	AssignedTasks   *int     `json:"assignedTasks"`
	FrozenAmount    *float64 `json:"frozenAmount"`
	Password        *string  `json:"password"`
}

// UpdateUser applies an allow-listed partial update. A new password is
// hashed here, at the write boundary.
func (e *Engine) UpdateUser(userID uint, u UserUpdate) (*domain.User, error) {
	var user domain.User
	if err := e.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]any{}
	if u.Email != nil && *u.Email != "" {
		updates["email"] = *u.Email
	}
	if u.PhoneNumber != nil && *u.PhoneNumber != "" {
		updates["phone_number"] = *u.PhoneNumber
	}
	if u.MembershipLevel != nil {
		updates["membership_level"] = *u.MembershipLevel
	}
	if u.TradingStatus != nil {
		updates["trading_status"] = *u.TradingStatus
	}
	if u.IsProxy != nil {
		updates["is_proxy"] = *u.IsProxy
	}
	if u.AssignedTasks != nil {
		if *u.AssignedTasks < 0 {
			return nil, ErrInvalidAmount
		}
		updates["assigned_tasks"] = *u.AssignedTasks
	}
	if u.FrozenAmount != nil {
		if *u.FrozenAmount < 0 {
			return nil, ErrInvalidAmount
		}
		updates["frozen_amount"] = *u.FrozenAmount
	}
	if u.Password != nil && *u.Password != "" {
		hash, err := utils.HashPassword(*u.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		if err := e.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	if err := e.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetWithdrawalInfo stores the payout network and wallet address
func (e *Engine) SetWithdrawalInfo(userID uint, network, wallet string) (*domain.User, error) {
	var user domain.User
	if err := e.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := e.db.Model(&user).Updates(map[string]any{
		"network": network,
		"wallet":  wallet,
	}).Error; err != nil {
		return nil, err
	}
	user.Network = network
	user.Wallet = wallet
	return &user, nil
}

// DeleteUser hard-deletes a user account (admin escape hatch)
func (e *Engine) DeleteUser(userID uint) error {
	res := e.db.Delete(&domain.User{}, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// updateByUsername loads the user first so a no-op update (same value)
// is not mistaken for a missing user.
func (e *Engine) updateByUsername(username string, updates map[string]any) error {
	var user domain.User
	if err := e.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return e.db.Model(&user).Updates(updates).Error
}
