package services

import (
	"context"
	"time"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
)

// LedgerQueryService is the read side of the ledger and the product snapshot.
type LedgerQueryService interface {
	// ListProducts is ordered by name ascending.
	ListProducts(ctx context.Context, scope models.Scope) ([]*models.Product, error)
	// ListTransactions is ordered newest first for display.
	ListTransactions(ctx context.Context, scope models.Scope, filter models.TransactionFilter) ([]*models.Transaction, error)
	// ListAllTransactions returns the tenant's full history across every
	// warehouse in ascending order, for reconstruction math.
	ListAllTransactions(ctx context.Context, tenantID uuid.UUID) ([]*models.Transaction, error)
	// ListTransactionsBetween returns entries in [from, to) in ascending order.
	ListTransactionsBetween(ctx context.Context, scope models.Scope, from, to time.Time) ([]*models.Transaction, error)
	ListLowStock(ctx context.Context, scope models.Scope) ([]*models.Product, error)
}

type ledgerQueryService struct {
	productRepo     repositories.ProductRepository
	transactionRepo repositories.TransactionRepository
}

func NewLedgerQueryService(productRepo repositories.ProductRepository, transactionRepo repositories.TransactionRepository) LedgerQueryService {
	return &ledgerQueryService{
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *ledgerQueryService) ListProducts(ctx context.Context, scope models.Scope) ([]*models.Product, error) {
	return s.productRepo.List(ctx, scope)
}

func (s *ledgerQueryService) ListTransactions(ctx context.Context, scope models.Scope, filter models.TransactionFilter) ([]*models.Transaction, error) {
	return s.transactionRepo.List(ctx, scope, filter, true)
}

func (s *ledgerQueryService) ListAllTransactions(ctx context.Context, tenantID uuid.UUID) ([]*models.Transaction, error) {
	return s.transactionRepo.List(ctx, models.TenantScope(tenantID), models.TransactionFilter{}, false)
}

func (s *ledgerQueryService) ListTransactionsBetween(ctx context.Context, scope models.Scope, from, to time.Time) ([]*models.Transaction, error) {
	return s.transactionRepo.List(ctx, scope, models.TransactionFilter{From: &from, To: &to}, false)
}

func (s *ledgerQueryService) ListLowStock(ctx context.Context, scope models.Scope) ([]*models.Product, error) {
	return s.productRepo.ListLowStock(ctx, scope)
}
