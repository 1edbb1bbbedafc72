package service

import (
	"context"
	"fmt"
	"strings"

	"baristabot/internal/domain"
	"baristabot/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProgramInput is the payload for a new bonus program
type ProgramInput struct {
	Name        string          `validate:"required,min=2,max=50"`
	BasePercent decimal.Decimal `validate:"gte=0,lte=100"`
	Description string          `validate:"max=500"`
	CreatedBy   int64
}

// LevelInput is the payload for a new bonus level
type LevelInput struct {
	ProgramID    int64           `validate:"gt=0"`
	Name         string          `validate:"required,min=2,max=50"`
	MinPurchases decimal.Decimal `validate:"gt=0"`
	Percent      decimal.Decimal `validate:"gte=0,lte=100"`
	Description  string          `validate:"max=500"`
}

// BonusService manages loyalty programs and their levels
type BonusService struct {
	bonuses repository.BonusRepository
	logger  *zap.Logger
}

// NewBonusService creates a new bonus service
func NewBonusService(bonuses repository.BonusRepository, logger *zap.Logger) *BonusService {
	return &BonusService{
		bonuses: bonuses,
		logger:  logger,
	}
}

// CreateProgram stores a new program with a unique name
func (s *BonusService) CreateProgram(ctx context.Context, in ProgramInput) (*domain.BonusProgram, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	taken, err := s.bonuses.ProgramNameExists(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("check program name: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicate
	}

	p := domain.BonusProgram{
		Name:        in.Name,
		Description: in.Description,
		BasePercent: in.BasePercent,
		IsActive:    true,
		CreatedBy:   in.CreatedBy,
	}
	p.ID, err = s.bonuses.CreateProgram(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	s.logger.Info("Bonus program created", zap.Int64("program_id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

// ProgramNameTaken reports whether a program already uses name
func (s *BonusService) ProgramNameTaken(ctx context.Context, name string) (bool, error) {
	return s.bonuses.ProgramNameExists(ctx, strings.TrimSpace(name))
}

// Programs lists every program
func (s *BonusService) Programs(ctx context.Context) ([]domain.BonusProgram, error) {
	return s.bonuses.Programs(ctx)
}

// CreateLevel adds a level to an existing program
func (s *BonusService) CreateLevel(ctx context.Context, in LevelInput) (*domain.BonusLevel, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.bonuses.Program(ctx, in.ProgramID); err != nil {
		return nil, fmt.Errorf("load program %d: %w", in.ProgramID, err)
	}

	l := domain.BonusLevel{
		ProgramID:    in.ProgramID,
		Name:         in.Name,
		MinPurchases: in.MinPurchases,
		Percent:      in.Percent,
		Description:  in.Description,
	}
	id, err := s.bonuses.CreateLevel(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("create level: %w", err)
	}
	l.ID = id

	s.logger.Info("Bonus level created",
		zap.Int64("program_id", l.ProgramID),
		zap.Int64("level_id", l.ID),
	)
	return &l, nil
}

// Levels returns the levels of one program ordered by threshold
func (s *BonusService) Levels(ctx context.Context, programID int64) ([]domain.BonusLevel, error) {
	return s.bonuses.Levels(ctx, programID)
}

// AllLevels returns every level of every program
func (s *BonusService) AllLevels(ctx context.Context) ([]domain.BonusLevel, error) {
	return s.bonuses.AllLevels(ctx)
}

// DeleteLevel removes one level
func (s *BonusService) DeleteLevel(ctx context.Context, id int64) error {
	if err := s.bonuses.DeleteLevel(ctx, id); err != nil {
		return fmt.Errorf("delete level %d: %w", id, err)
	}
	s.logger.Info("Bonus level deleted", zap.Int64("level_id", id))
	return nil
}
