package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"baristabot/internal/domain"
	"baristabot/internal/repository"

	"go.uber.org/zap"
)

const cardAttempts = 10

// RegistrationInput is the payload for a new loyalty customer
type RegistrationInput struct {
	Name     string `validate:"required,min=2,max=100"`
	Phone    string `validate:"required,e164"`
	Birthday *time.Time
	UserID   *int64
}

// CustomerService handles loyalty customer business logic
type CustomerService struct {
	customers repository.CustomerRepository
	tx        repository.TxRunner
	rnd       *rand.Rand
	logger    *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(customers repository.CustomerRepository, tx repository.TxRunner, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		tx:        tx,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    logger,
	}
}

// Register creates a customer with a fresh card number and the default program
func (s *CustomerService) Register(ctx context.Context, in RegistrationInput) (*domain.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var created domain.Customer
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		taken, err := repos.Customers.PhoneExists(ctx, in.Phone)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicate
		}

		card, err := s.freeCardNumber(ctx, repos.Customers)
		if err != nil {
			return err
		}

		c := domain.Customer{
			UserID:     in.UserID,
			Name:       in.Name,
			Phone:      in.Phone,
			Birthday:   in.Birthday,
			CardNumber: card,
			IsActive:   true,
		}

		program, err := repos.Bonuses.DefaultProgram(ctx)
		switch {
		case err == nil:
			c.BonusProgramID = &program.ID
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		id, err := repos.Customers.Create(ctx, c)
		if err != nil {
			return err
		}
		c.ID = id
		created = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register customer: %w", err)
	}

	s.logger.Info("Customer registered",
		zap.Int64("customer_id", created.ID),
		zap.String("card", created.CardNumber),
	)
	return &created, nil
}

func (s *CustomerService) freeCardNumber(ctx context.Context, customers repository.CustomerRepository) (string, error) {
	for range cardAttempts {
		card := domain.NewCardNumber(s.rnd)
		exists, err := customers.CardExists(ctx, card)
		if err != nil {
			return "", err
		}
		if !exists {
			return card, nil
		}
	}
	return "", errors.New("no free card number")
}

// PhoneRegistered reports whether a customer already uses phone
func (s *CustomerService) PhoneRegistered(ctx context.Context, phone string) (bool, error) {
	return s.customers.PhoneExists(ctx, phone)
}

// ActiveByCard finds an active customer by card number
func (s *CustomerService) ActiveByCard(ctx context.Context, card string) (*domain.Customer, error) {
	c, err := s.customers.FindByCard(ctx, strings.ToUpper(strings.TrimSpace(card)))
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// Get returns one customer
func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.Get(ctx, id)
}

// ByUser returns the customer linked to a chat account
func (s *CustomerService) ByUser(ctx context.Context, userID int64) (*domain.Customer, error) {
	return s.customers.FindByUserID(ctx, userID)
}

// List returns the most recently registered customers
func (s *CustomerService) List(ctx context.Context, limit int) ([]domain.Customer, error) {
	return s.customers.List(ctx, limit)
}

// Search looks customers up by card, phone, name or id
func (s *CustomerService) Search(ctx context.Context, mode domain.CustomerSearchMode, query string) ([]domain.Customer, error) {
	query = strings.TrimSpace(query)
	if mode == domain.SearchByPhone {
		if phone, err := domain.NormalizePhone(query); err == nil {
			query = phone
		}
	}
	if mode == domain.SearchByCard {
		query = strings.ToUpper(query)
	}
	return s.customers.Search(ctx, mode, query)
}

// SetActive toggles whether the customer can earn bonuses
func (s *CustomerService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.customers.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("set customer %d active: %w", id, err)
	}
	s.logger.Info("Customer status changed", zap.Int64("customer_id", id), zap.Bool("active", active))
	return nil
}

// Purchases returns the latest purchases of a customer
func (s *CustomerService) Purchases(ctx context.Context, customerID int64, limit int) ([]domain.Purchase, error) {
	return s.customers.Purchases(ctx, customerID, limit)
}
