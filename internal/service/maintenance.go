package service

import (
	"context"
	"fmt"

	"github.com/AndreAle94/moneywallet-sub005/internal/integrity"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	Engine *integrity.Engine
}

// Reset wipes all user data. Currencies and system categories stay, so the
// store keeps working.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.Engine == nil {
		return fmt.Errorf("maintenance: engine not configured")
	}
	if err := s.Engine.Reset(ctx); err != nil {
		return err
	}
	if err := s.Engine.Compact(ctx); err != nil {
		return fmt.Errorf("compact after reset: %w", err)
	}
	return nil
}
