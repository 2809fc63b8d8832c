package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/iliyamo/facility-desk/internal/model"
	"github.com/iliyamo/facility-desk/internal/repository"
	"github.com/iliyamo/facility-desk/internal/utils"
)

// AccountStore persists accounts.
type AccountStore interface {
	Create(ctx context.Context, a model.Account) error
	GetByUserID(ctx context.Context, userID string) (model.Account, error)
}

// RegisterCommand carries the four registration fields.
type RegisterCommand struct {
	Username   string
	Department string
	UserID     string
	Password   string
}

// AccountService registers staff and verifies their credentials.
type AccountService struct {
	store  AccountStore
	hasher utils.PasswordHasher
	log    *slog.Logger
}

func NewAccountService(store AccountStore, hasher utils.PasswordHasher, log *slog.Logger) *AccountService {
	return &AccountService{store: store, hasher: hasher, log: log}
}

// Register stores a new account.  All four fields are required.
func (s *AccountService) Register(ctx context.Context, cmd RegisterCommand) error {
	a := model.Account{
		Username:   strings.TrimSpace(cmd.Username),
		Department: strings.TrimSpace(cmd.Department),
		UserID:     strings.TrimSpace(cmd.UserID),
	}
	if a.Username == "" || a.Department == "" || a.UserID == "" || cmd.Password == "" {
		return fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	stored, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	a.Password = stored

	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAccountExists
		}
		return err
	}
	s.log.Info("account registered", "user_id", a.UserID, "dept", a.Department)
	return nil
}

// Login returns the account when userID exists and password matches.
func (s *AccountService) Login(ctx context.Context, userID, password string) (model.Account, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return model.Account{}, fmt.Errorf("%w: USERID and PASSWORD are required", ErrValidation)
	}
	a, err := s.store.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Account{}, ErrUnauthorized
	}
	if err != nil {
		return model.Account{}, err
	}
	if !s.hasher.Verify(a.Password, password) {
		s.log.Warn("login rejected", "user_id", userID)
		return model.Account{}, ErrUnauthorized
	}
	return a, nil
}

// GetByID looks an account up by its numeric user id.
func (s *AccountService) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	a, err := s.store.GetByUserID(ctx, strconv.FormatUint(id, 10))
	if errors.Is(err, repository.ErrNotFound) {
		return model.Account{}, ErrAccountNotFound
	}
	return a, err
}
