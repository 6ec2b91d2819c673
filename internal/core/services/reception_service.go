package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/depositaria/reception_settlement_app/internal/apperrors"
	"github.com/depositaria/reception_settlement_app/internal/core/domain"
	portsrepo "github.com/depositaria/reception_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/depositaria/reception_settlement_app/internal/core/ports/services"
	"github.com/depositaria/reception_settlement_app/internal/dto"
	"github.com/depositaria/reception_settlement_app/internal/middleware"
)

var (
	ErrEmptyBatch             = errors.New("reception batch has no movements and no payments")
	ErrUnknownReference       = errors.New("referenced entity not found")
	ErrDuplicateReference     = errors.New("payment reference number already used")
	ErrConcurrentModification = errors.New("conflicting concurrent credit update, retries exhausted")
	ErrTransactionLocked      = errors.New("transaction is locked by a cash closure")
	ErrAlreadyReversed        = errors.New("transaction is already a reversal")
)

// defaultCommitRetries bounds the local retry loop around credit conflicts.
const defaultCommitRetries = 3

// receptionService validates and executes reception batches against the
// ledger repository.
type receptionService struct {
	ledgerRepo       portsrepo.LedgerRepositoryFacade
	referenceSvc     portssvc.ReferenceSvcFacade
	maxCommitRetries int
}

// NewReceptionService creates a new ReceptionService.
func NewReceptionService(ledgerRepo portsrepo.LedgerRepositoryFacade, referenceSvc portssvc.ReferenceSvcFacade, maxCommitRetries int) portssvc.ReceptionSvcFacade {
	if maxCommitRetries <= 0 {
		maxCommitRetries = defaultCommitRetries
	}
	return &receptionService{
		ledgerRepo:       ledgerRepo,
		referenceSvc:     referenceSvc,
		maxCommitRetries: maxCommitRetries,
	}
}

// Ensure receptionService implements the portssvc.ReceptionSvcFacade interface
var _ portssvc.ReceptionSvcFacade = (*receptionService)(nil)

// ProcessBatch validates and commits one reception batch as a single unit of
// work. Validation happens before any write; the commit itself is atomic and
// is retried a bounded number of times when a concurrent batch touched the
// same credits first.
func (s *receptionService) ProcessBatch(ctx context.Context, req dto.ProcessReceptionRequest, creatorUserID string) (*dto.ReceptionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Movements) == 0 && len(req.Payments) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := s.validateBatchShape(req); err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, req); err != nil {
		logger.Warn("Reception batch referenced unknown entities", slog.String("client_id", req.ClientID), slog.String("error", err.Error()))
		return nil, err
	}

	// Idempotency guard: a batch whose reference numbers were all committed
	// before is a replay of a prior submission, not an error.
	replay, err := s.checkReferenceNumbers(ctx, req)
	if err != nil {
		return nil, err
	}
	if replay != nil {
		logger.Info("Reception batch replayed from prior result", slog.String("client_id", req.ClientID), slog.Int("transaction_count", len(replay.TransactionIDs)))
		return replay, nil
	}

	now := time.Now().UTC()
	movements := s.buildMovements(req, creatorUserID, now)

	// Transaction identity is fixed before the retry loop so a retried commit
	// re-submits the same records.
	transactions := s.buildTransactions(req, creatorUserID, now)

	var result *dto.ReceptionResult
	for attempt := 0; attempt <= s.maxCommitRetries; attempt++ {
		writeSet, buildErr := s.assembleWriteSet(ctx, req, transactions, movements, creatorUserID, now)
		if buildErr != nil {
			return nil, buildErr
		}
		writeSet.Receipt = buildReceipt(req.ClientID, writeSet, creatorUserID, now)

		commitErr := s.ledgerRepo.CommitReception(ctx, writeSet)
		if commitErr == nil {
			result = buildReceptionResult(writeSet)
			break
		}
		if errors.Is(commitErr, apperrors.ErrDuplicate) {
			// Lost a race against an identical resubmission; report the
			// winner's outcome.
			replay, replayErr := s.checkReferenceNumbers(ctx, req)
			if replayErr != nil {
				return nil, replayErr
			}
			if replay != nil {
				return replay, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrDuplicateReference, commitErr)
		}
		if errors.Is(commitErr, apperrors.ErrConflict) {
			logger.Warn("Reception commit conflicted, retrying", slog.String("client_id", req.ClientID), slog.Int("attempt", attempt+1))
			if attempt == s.maxCommitRetries {
				return nil, fmt.Errorf("%w: client %s", ErrConcurrentModification, req.ClientID)
			}
			continue
		}
		// Commit outcome is ambiguous. Never retried here; the caller
		// resubmits with the same reference numbers.
		logger.Error("Reception commit failed", slog.String("client_id", req.ClientID), slog.String("error", commitErr.Error()))
		return nil, fmt.Errorf("failed to commit reception batch: %w", commitErr)
	}

	logger.Info("Reception batch committed",
		slog.String("client_id", req.ClientID),
		slog.Int("transaction_count", len(result.TransactionIDs)),
		slog.Int("movement_count", len(result.MovementIDs)),
	)
	return result, nil
}

// validateBatchShape rejects malformed lines before any lookup.
func (s *receptionService) validateBatchShape(req dto.ProcessReceptionRequest) error {
	for _, p := range req.Payments {
		if !p.TransactionType.IsValid() {
			return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, p.TransactionType)
		}
		if p.TransactionType == domain.Adjustment {
			return fmt.Errorf("%w: adjustments are created through the reversal operation", apperrors.ErrValidation)
		}
		if p.Amount.IsNegative() || p.Amount.IsZero() {
			return fmt.Errorf("%w: payment %s amount %s", ErrInvalidAmount, p.ReferenceNumber, p.Amount.String())
		}
		if p.ReferenceNumber == "" {
			return fmt.Errorf("%w: payment reference number is required", apperrors.ErrValidation)
		}
	}
	for i, m := range req.Movements {
		if !m.MovementType.IsValid() {
			return fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, m.MovementType)
		}
		if m.MovementType == domain.Delivered && m.Delivery == nil {
			return fmt.Errorf("%w: movement %d is a delivery without delivery details", apperrors.ErrValidation, i)
		}
	}
	return nil
}

// validateReferences checks client, order, and brand existence before the
// commit phase so the atomic section stays short.
func (s *receptionService) validateReferences(ctx context.Context, req dto.ProcessReceptionRequest) error {
	ok, err := s.referenceSvc.ClientExists(ctx, req.ClientID)
	if err != nil {
		return fmt.Errorf("failed to check client %s: %w", req.ClientID, err)
	}
	if !ok {
		return fmt.Errorf("%w: client %s", ErrUnknownReference, req.ClientID)
	}

	orderIDs := make([]string, 0, len(req.Payments)+len(req.Movements))
	for _, p := range req.Payments {
		orderIDs = append(orderIDs, p.OrderID)
	}
	brandIDs := make([]string, 0, len(req.Movements))
	for _, m := range req.Movements {
		orderIDs = append(orderIDs, m.OrderID)
		brandIDs = append(brandIDs, m.BrandID)
	}

	for _, orderID := range uniqueStrings(orderIDs) {
		ok, err := s.referenceSvc.OrderExists(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to check order %s: %w", orderID, err)
		}
		if !ok {
			return fmt.Errorf("%w: order %s", ErrUnknownReference, orderID)
		}
	}
	for _, brandID := range uniqueStrings(brandIDs) {
		ok, err := s.referenceSvc.BrandExists(ctx, brandID)
		if err != nil {
			return fmt.Errorf("failed to check brand %s: %w", brandID, err)
		}
		if !ok {
			return fmt.Errorf("%w: brand %s", ErrUnknownReference, brandID)
		}
	}
	return nil
}

// checkReferenceNumbers implements the idempotency guard. It returns a replay
// result when every reference number in the batch is already committed, nil
// when none are, and ErrDuplicateReference for a partial overlap (a mixed
// batch is neither a fresh submission nor a clean retry).
func (s *receptionService) checkReferenceNumbers(ctx context.Context, req dto.ProcessReceptionRequest) (*dto.ReceptionResult, error) {
	if len(req.Payments) == 0 {
		return nil, nil
	}

	refs := make([]string, 0, len(req.Payments))
	seen := make(map[string]struct{}, len(req.Payments))
	for _, p := range req.Payments {
		if _, dup := seen[p.ReferenceNumber]; dup {
			return nil, fmt.Errorf("%w: reference %s appears twice in the batch", ErrDuplicateReference, p.ReferenceNumber)
		}
		seen[p.ReferenceNumber] = struct{}{}
		refs = append(refs, p.ReferenceNumber)
	}

	existing, err := s.ledgerRepo.FindTransactionsByReferenceNumbers(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to check reference numbers: %w", err)
	}
	if len(existing) == 0 {
		return nil, nil
	}
	if len(existing) < len(refs) {
		for _, ref := range refs {
			if _, found := existing[ref]; found {
				return nil, fmt.Errorf("%w: reference %s", ErrDuplicateReference, ref)
			}
		}
	}

	// Every reference is committed: replay the stored receipt so the caller
	// gets the first call's result, movements and credits included.
	receipt, receiptErr := s.ledgerRepo.FindReceiptByReferenceNumber(ctx, refs[0])
	if receiptErr != nil && !errors.Is(receiptErr, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load reception receipt: %w", receiptErr)
	}
	if receipt != nil {
		result := &dto.ReceptionResult{
			TransactionIDs: receipt.TransactionIDs,
			MovementIDs:    receipt.MovementIDs,
			NewCreditIDs:   receipt.NewCreditIDs,
			Replayed:       true,
		}
		for _, consumed := range receipt.ConsumedCredits {
			result.ConsumedCredits = append(result.ConsumedCredits, dto.ConsumedCreditResponse{
				CreditID: consumed.CreditID,
				Consumed: consumed.Amount,
			})
		}
		return result, nil
	}

	// Rows committed before receipts were stored replay with transaction
	// identifiers only.
	result := &dto.ReceptionResult{Replayed: true}
	for _, ref := range refs {
		txn := existing[ref]
		result.TransactionIDs = append(result.TransactionIDs, txn.TransactionID)
	}
	return result, nil
}

// buildTransactions assembles the financial transactions for the batch's
// payments. The recorded amount is the actual cash received; the due amount
// only drives credit allocation.
func (s *receptionService) buildTransactions(req dto.ProcessReceptionRequest, creatorUserID string, now time.Time) []domain.FinancialTransaction {
	transactions := make([]domain.FinancialTransaction, len(req.Payments))
	for i, p := range req.Payments {
		orderID := p.OrderID
		transactions[i] = domain.FinancialTransaction{
			TransactionID:   uuid.NewString(),
			TransactionType: p.TransactionType,
			ReferenceNumber: p.ReferenceNumber,
			Amount:          p.Amount,
			Date:            p.Date,
			ClientID:        req.ClientID,
			OrderID:         &orderID,
			Notes:           p.Notes,
			AuditFields:     newAuditFields(creatorUserID, now),
		}
	}
	return transactions
}

// buildMovements assembles the inventory movements for the batch.
func (s *receptionService) buildMovements(req dto.ProcessReceptionRequest, creatorUserID string, now time.Time) []domain.InventoryMovement {
	movements := make([]domain.InventoryMovement, len(req.Movements))
	for i, m := range req.Movements {
		movement := domain.InventoryMovement{
			MovementID:   uuid.NewString(),
			OrderID:      m.OrderID,
			ClientID:     req.ClientID,
			BrandID:      m.BrandID,
			MovementType: m.MovementType,
			Date:         m.Date,
			Notes:        m.Notes,
			AuditFields:  newAuditFields(creatorUserID, now),
		}
		if m.Delivery != nil {
			movement.DeliveryDetails = &domain.DeliveryDetails{
				DeliveredTo:  m.Delivery.DeliveredTo,
				DeliveryDate: m.Delivery.DeliveryDate,
			}
		}
		movements[i] = movement
	}
	return movements
}

// assembleWriteSet runs the allocator for each payment against a fresh read
// of the client's outstanding credits and merges the resulting deltas. Called
// once per commit attempt; a conflict invalidates the credit snapshot, so the
// whole assembly reruns.
func (s *receptionService) assembleWriteSet(ctx context.Context, req dto.ProcessReceptionRequest, transactions []domain.FinancialTransaction, movements []domain.InventoryMovement, creatorUserID string, now time.Time) (domain.ReceptionWriteSet, error) {
	writeSet := domain.ReceptionWriteSet{
		Transactions: transactions,
		Movements:    movements,
	}
	if len(req.Payments) == 0 {
		return writeSet, nil
	}

	credits, err := s.ledgerRepo.FindOutstandingCreditsByClient(ctx, req.ClientID)
	if err != nil {
		return domain.ReceptionWriteSet{}, fmt.Errorf("failed to fetch credits for client %s: %w", req.ClientID, err)
	}

	// Working copy: consumption by an earlier payment in the batch must be
	// visible to later payments. Credits created inside the batch are not
	// consumable within the same batch.
	working := make([]domain.ClientCredit, len(credits))
	copy(working, credits)

	deltaByCredit := make(map[string]*domain.CreditConsumption)
	deltaOrder := make([]string, 0)

	for i, p := range req.Payments {
		dueAmount, err := s.referenceSvc.OrderDueAmount(ctx, p.OrderID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return domain.ReceptionWriteSet{}, fmt.Errorf("%w: order %s", ErrUnknownReference, p.OrderID)
			}
			return domain.ReceptionWriteSet{}, fmt.Errorf("failed to fetch due amount for order %s: %w", p.OrderID, err)
		}

		alloc, err := AllocateCredit(dueAmount, p.Amount, working)
		if err != nil {
			return domain.ReceptionWriteSet{}, err
		}

		for _, consumption := range alloc.Consumptions {
			for j := range working {
				if working[j].CreditID == consumption.CreditID {
					working[j].RemainingAmount = working[j].RemainingAmount.Sub(consumption.Amount)
					break
				}
			}
			if delta, found := deltaByCredit[consumption.CreditID]; found {
				delta.Amount = delta.Amount.Add(consumption.Amount)
			} else {
				c := consumption
				c.ConsumedBy = creatorUserID
				deltaByCredit[c.CreditID] = &c
				deltaOrder = append(deltaOrder, c.CreditID)
			}
		}

		if alloc.NewCredit.GreaterThan(decimal.Zero) {
			writeSet.NewCredits = append(writeSet.NewCredits, domain.ClientCredit{
				CreditID:            uuid.NewString(),
				ClientID:            req.ClientID,
				Amount:              alloc.NewCredit,
				RemainingAmount:     alloc.NewCredit,
				OriginTransactionID: transactions[i].TransactionID,
				AuditFields:         newAuditFields(creatorUserID, now),
			})
		}
	}

	for _, creditID := range deltaOrder {
		writeSet.CreditDeltas = append(writeSet.CreditDeltas, *deltaByCredit[creditID])
	}
	return writeSet, nil
}

// ReverseTransaction creates an adjustment that reverses a committed
// transaction. The original must exist, must not already be a reversal, and
// must not be locked by a cash closure.
func (s *receptionService) ReverseTransaction(ctx context.Context, transactionID string, notes string, creatorUserID string) (*dto.TransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", ErrUnknownReference, transactionID)
		}
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", transactionID, err)
	}
	if original.IsLocked() {
		return nil, fmt.Errorf("%w: transaction %s (closure %s)", ErrTransactionLocked, transactionID, *original.ClosureID)
	}
	if original.IsReversal() {
		return nil, fmt.Errorf("%w: transaction %s", ErrAlreadyReversed, transactionID)
	}

	now := time.Now().UTC()
	originalID := original.TransactionID
	if notes == "" {
		notes = fmt.Sprintf("Reversal of transaction %s (%s)", original.TransactionID, original.ReferenceNumber)
	}
	reversal := domain.FinancialTransaction{
		TransactionID:         uuid.NewString(),
		TransactionType:       domain.Adjustment,
		ReferenceNumber:       uuid.NewString(),
		Amount:                original.Amount,
		Date:                  now,
		ClientID:              original.ClientID,
		OrderID:               original.OrderID,
		Notes:                 notes,
		OriginalTransactionID: &originalID,
		AuditFields:           newAuditFields(creatorUserID, now),
	}

	if err := s.ledgerRepo.InsertReversal(ctx, reversal); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: transaction %s", ErrTransactionLocked, transactionID)
		}
		logger.Error("Failed to insert reversal", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to insert reversal for transaction %s: %w", transactionID, err)
	}

	logger.Info("Transaction reversed", slog.String("transaction_id", transactionID), slog.String("reversal_id", reversal.TransactionID))
	resp := dto.ToTransactionResponse(&reversal)
	return &resp, nil
}

// ListTransactionsByClient retrieves a page of a client's transactions within
// an optional date range.
func (s *receptionService) ListTransactionsByClient(ctx context.Context, clientID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20 // Default limit
	}
	transactions, nextToken, err := s.ledgerRepo.ListTransactionsByClient(ctx, clientID, params.From, params.To, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}, nil
}

// ListCreditsByClient retrieves a page of a client's credits.
func (s *receptionService) ListCreditsByClient(ctx context.Context, clientID string, params dto.ListCreditsParams) (*dto.ListCreditsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	credits, nextToken, err := s.ledgerRepo.ListCreditsByClient(ctx, clientID, params.OnlyOutstanding, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve credits: %w", err)
	}
	return &dto.ListCreditsResponse{
		Credits:   dto.ToCreditResponses(credits),
		NextToken: nextToken,
	}, nil
}

// ListMovementsByOrder retrieves every movement recorded against an order.
func (s *receptionService) ListMovementsByOrder(ctx context.Context, orderID string) ([]dto.MovementResponse, error) {
	movements, err := s.ledgerRepo.ListMovementsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve movements for order %s: %w", orderID, err)
	}
	return dto.ToMovementResponses(movements), nil
}

// buildReceipt freezes the batch outcome so a later identical submission can
// replay it. Rebuilt per commit attempt; new credit identity changes when the
// write set is reassembled after a conflict.
func buildReceipt(clientID string, writeSet domain.ReceptionWriteSet, userID string, now time.Time) domain.ReceptionReceipt {
	receipt := domain.ReceptionReceipt{
		ReceptionID: uuid.NewString(),
		ClientID:    clientID,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	for _, txn := range writeSet.Transactions {
		receipt.TransactionIDs = append(receipt.TransactionIDs, txn.TransactionID)
	}
	for _, movement := range writeSet.Movements {
		receipt.MovementIDs = append(receipt.MovementIDs, movement.MovementID)
	}
	for _, credit := range writeSet.NewCredits {
		receipt.NewCreditIDs = append(receipt.NewCreditIDs, credit.CreditID)
	}
	for _, delta := range writeSet.CreditDeltas {
		receipt.ConsumedCredits = append(receipt.ConsumedCredits, domain.ConsumedCredit{
			CreditID: delta.CreditID,
			Amount:   delta.Amount,
		})
	}
	return receipt
}

// buildReceptionResult summarizes a committed write set.
func buildReceptionResult(writeSet domain.ReceptionWriteSet) *dto.ReceptionResult {
	result := &dto.ReceptionResult{}
	for _, txn := range writeSet.Transactions {
		result.TransactionIDs = append(result.TransactionIDs, txn.TransactionID)
	}
	for _, movement := range writeSet.Movements {
		result.MovementIDs = append(result.MovementIDs, movement.MovementID)
	}
	for _, credit := range writeSet.NewCredits {
		result.NewCreditIDs = append(result.NewCreditIDs, credit.CreditID)
	}
	for _, delta := range writeSet.CreditDeltas {
		result.ConsumedCredits = append(result.ConsumedCredits, dto.ConsumedCreditResponse{
			CreditID: delta.CreditID,
			Consumed: delta.Amount,
		})
	}
	return result
}

// newAuditFields stamps creation audit data for a brand new record.
func newAuditFields(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
		Version:       1,
	}
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
