package finance

import (
	"context"
	"time"

	"github.com/agency/backend/internal/domain/finance"
	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService records customer payments against orders.
// A payment, the order's paid amount and the Cash/Receivable posting are
// written in one transaction.
type PaymentService struct {
	paymentRepo    finance.PaymentRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo finance.PaymentRepository, txScope TransactionScope, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		txScope:     txScope,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Record records a payment and posts Dr Cash / Cr Accounts Receivable
func (s *PaymentService) Record(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error) {
	paidAt := s.now()
	if req.PaidAt != nil && !req.PaidAt.IsZero() {
		paidAt = *req.PaidAt
	}

	var (
		payment   *finance.Payment
		remaining decimal.Decimal
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}

		payment, err = finance.NewPayment(order.ID, order.CustomerID, req.Amount, finance.PaymentMethod(req.Method), paidAt)
		if err != nil {
			return err
		}
		payment.SetNotes(req.Reference, req.Notes)

		if err := order.RecordPayment(payment.Amount); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}

		memo := "دفعة للطلب " + order.OrderNumber
		if _, err := postEntry(ctx, repos, payment.PaidAt, memo, finance.ReferenceTypePayment, &payment.ID, []lineSpec{
			debit(finance.AccountCodeCash, payment.Amount, memo),
			credit(finance.AccountCodeAccountsReceivable, payment.Amount, memo),
		}); err != nil {
			return err
		}
		remaining = order.RemainingAmount()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, finance.NewPaymentReceivedEvent(payment, remaining)); err != nil {
			s.logger.Warn("failed to publish payment event", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		}
	}

	response := ToPaymentResponse(payment)
	return &response, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.OrderID != nil {
		domainFilter.Filters[finance.FilterOrderID] = *filter.OrderID
	}
	if filter.CustomerID != nil {
		domainFilter.Filters[finance.FilterCustomerID] = *filter.CustomerID
	}
	if filter.Method != "" {
		domainFilter.Filters[finance.FilterMethod] = filter.Method
	}
	setDateRange(&domainFilter, filter.From, filter.To)

	payments, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, total, nil
}

// ListByOrder lists the payments of one order
func (s *PaymentService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, nil
}

// Delete removes a payment, reduces the order's paid amount and posts a
// reversing entry
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		order, err := repos.OrderRepo().FindByID(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		if err := order.ReversePayment(payment.Amount); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Delete(ctx, payment.ID); err != nil {
			return err
		}

		memo := "إلغاء دفعة للطلب " + order.OrderNumber
		_, err = postEntry(ctx, repos, s.now(), memo, finance.ReferenceTypePaymentReversal, &payment.ID, []lineSpec{
			debit(finance.AccountCodeAccountsReceivable, payment.Amount, memo),
			credit(finance.AccountCodeCash, payment.Amount, memo),
		})
		return err
	})
}

// setDateRange adds inclusive from/to day bounds to the filter
func setDateRange(f *shared.Filter, from, to *time.Time) {
	if from != nil {
		f.Filters[finance.FilterFrom] = *from
	}
	if to != nil {
		f.Filters[finance.FilterTo] = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
}
