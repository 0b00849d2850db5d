package printing

import (
	"context"

	"github.com/agency/backend/internal/domain/printing"
	"github.com/agency/backend/internal/domain/shared"
)

// TransactionScope runs print shop changes that touch both orders and
// material stock in one database transaction.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a transaction
type TransactionalRepositories interface {
	PrintOrderRepo() printing.PrintOrderRepository
	MaterialRepo() printing.PrintMaterialRepository
	Numbers() shared.NumberGenerator
}
