// Package account is a small ledger whose writes are restricted by
// caller-identity policies and enforced by the generated guards.
package account

import (
	"errors"

	"gorm.io/gorm"
)

// ErrInsufficientFunds is returned by Withdraw.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Account is one ledger row.
//
//fnpolicy:mutatedby "Open", "Deposit", "Withdraw"
type Account struct {
	ID      uint
	Owner   string
	Balance int64
}

// Open returns a new, unsaved account.
func Open(id uint, owner string) *Account {
	return &Account{ID: id, Owner: owner}
}

// Deposit adds amount to the balance of a.
//
//fnpolicy:mutates Account: ("Balance")
func Deposit(db *gorm.DB, a *Account, amount int64) error {
	a.Balance += amount
	return db.Model(a).Update("balance", a.Balance).Error
}

// Withdraw subtracts amount from the balance of a.
//
//fnpolicy:calledby "Transfer"
//fnpolicy:mutates Account: ("Balance")
func Withdraw(db *gorm.DB, a *Account, amount int64) error {
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	return db.Model(a).Update("balance", a.Balance).Error
}

// Transfer moves amount from one account to another.
//
//fnpolicy:mustcall "Withdraw", "Deposit"
func Transfer(db *gorm.DB, from, to *Account, amount int64) error {
	if err := Withdraw(db, from, amount); err != nil {
		return err
	}
	return Deposit(db, to, amount)
}

// Drain registers as a mutator it is not allowed to be. The guard rejects
// it when it returns.
func Drain(db *gorm.DB, a *Account) error {
	defer AccountMutates("Drain")
	a.Balance = 0
	return db.Model(a).Update("balance", 0).Error
}

// Skim registers as a caller of Withdraw it is not allowed to be. The guard
// rejects it before Withdraw runs.
func Skim(db *gorm.DB, a *Account, amount int64) error {
	WithdrawCallsite("Skim")
	return Withdraw(db, a, amount)
}
